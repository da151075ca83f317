package telegram

// SystemPrompt is the counselor persona seeded as entry 0 of every
// transcript. It fixes the language, tone, and the clinical boundaries of
// the assistant.
const SystemPrompt = "Ты эмпатичный, тактичный психолог-консультант.\n" +
	"- Отвечай по-русски.\n" +
	"- Твоя цель — поддержать, помочь человеку разобраться в чувствах и ситуации.\n" +
	"- Задавай уточняющие вопросы, помогай видеть разные варианты, предлагай мягкие шаги.\n" +
	"- Не ставь психиатрических диагнозов и не обсуждай лекарства.\n" +
	"- Если человек винит себя, помоги снизить самокритику и увидеть контекст.\n" +
	"- Отвечай обычно 3–6 предложениями, без огромных полотен.\n" +
	"- Будь тёплым, но уважительным, без сюсюканья.\n"

const startText = "Привет! 👋 Я бот, который помогает разбираться в мыслях и чувствах.\n\n" +
	"Можешь написать, что у тебя происходит: что тревожит, злит, расстраивает " +
	"или просто не даёт покоя. Я постараюсь мягко поддержать, задать вопросы " +
	"и помочь посмотреть на ситуацию под другим углом.\n\n" +
	"Важно:\n" +
	"• Я не врач и не ставлю диагнозов.\n" +
	"• В тяжёлых состояниях лучше обязательно обращаться к живому специалисту.\n\n" +
	"Если хочешь начать заново, можно написать /reset."

const helpText = "Я здесь, чтобы выслушать и поддержать тебя.\n\n" +
	"Просто напиши своими словами, что у тебя на душе — мысли, " +
	"переживания, конфликт, усталость, тревога.\n\n" +
	"Команды:\n" +
	"/start — информация обо мне\n" +
	"/reset — очистить контекст диалога и начать с чистого листа"

const resetText = "Я очистил историю нашего диалога ✅\n" +
	"Можем начать сначала. Расскажи, что сейчас для тебя самое важное."

// crisisText is the fixed safety answer for high-risk messages. It is never
// model-generated.
const crisisText = "Я слышу, что тебе сейчас очень тяжело, и мысли, о которых ты пишешь, " +
	"говорят о сильной боли 💔\n\n" +
	"Я как бот не могу полноценно помочь в такой ситуации, но очень важно, " +
	"чтобы рядом оказался живой человек, который сможет это сделать.\n\n" +
	"Пожалуйста, обратись за помощью:\n" +
	"• к близкому человеку, которому ты более-менее доверяешь;\n" +
	"• к психологу или психотерапевту (очно или онлайн);\n" +
	"• в местную службу экстренной помощи или на номер экстренных служб (например, 112).\n\n" +
	"Ты правда заслуживаешь поддержки. Если можешь, напиши сейчас кому-то " +
	"из живых людей или позвони в экстренную службу."
