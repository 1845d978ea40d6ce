// Package flow implements the DIRA 2050 conversation engine.
//
// This file holds the bilingual message catalogue. The large message bodies
// are pure data: lookup tables keyed by language and session attributes,
// with no external calls and no randomness.
package flow

import (
	"fmt"

	"github.com/dira2050/dirabot/internal/models"
)

// welcomeMessage greets new users and asks for a language choice.
// It is intentionally bilingual since no language has been selected yet.
const welcomeMessage = `🇹🇿 *Karibu kwa DIRA 2050 Chatbot!*

Hii ni dira ya Tanzania kuwa nchi yenye uchumi imara wa dola trilioni 1, elimu bora, na maisha bora kwa wote ifikapo 2050.

*Chagua lugha yako / Choose your language:*
1️⃣ Kiswahili
2️⃣ English

*Andika nambari ya chaguo lako (1 au 2)*`

const languageReprompt = `Samahani, sijaelewa. Tafadhali chagua moja ya chaguzi zifuatazo:

*Chagua lugha yako / Choose your language:*
1️⃣ Kiswahili
2️⃣ English

*Andika nambari ya chaguo lako (1 au 2)*`

const helpMessage = `🆘 *Msaada wa DIRA 2050 Chatbot*

*Amri za kawaida:*
• "5" au "Anza" - Anza mazungumzo upya
• "1" au "Quiz" - Anza jaribio la maswali
• "2" au "Maelezo" - Pata maelezo zaidi
• "3" au "Maoni" - Toa maoni yako
• "4" au "PDF" - Pata muhtasari wa kurasa

*Kuhusu DIRA 2050:*
DIRA ni Dira ya Maendeleo ya Tanzania 2050 inayolenga kuwa nchi yenye uchumi imara, elimu bora na maisha bora kwa wote.

*Kwa msaada zaidi:*
Tembelea: www.planning.go.tz`

var activityQuestion = map[models.Language]string{
	models.LanguageEnglish: `*What is your economic activity?*

Choose one:
1️⃣ Student
2️⃣ Farmer
3️⃣ Entrepreneur
4️⃣ Worker
5️⃣ Unemployed
6️⃣ Other

*Type the number of your choice (1-6)*`,
	models.LanguageSwahili: `*Kama vijana, wewe unafanya nini kiuchumi?*

Chagua moja:
1️⃣ Mwanafunzi
2️⃣ Mkulima
3️⃣ Mjasiriamali
4️⃣ Mfanyakazi
5️⃣ Bila ajira
6️⃣ Nyingine

*Andika nambari ya chaguo lako (1-6)*`,
}

var genderQuestion = map[models.Language]string{
	models.LanguageEnglish: `*Please specify:*

1️⃣ Male
2️⃣ Female
3️⃣ Male with disability
4️⃣ Female with disability
5️⃣ Prefer not to say

*Type the number of your choice (1-5)*`,
	models.LanguageSwahili: `*Je, wewe ni:*

1️⃣ Mwanaume
2️⃣ Mwanamke
3️⃣ Mwanaume mwenye ulemavu
4️⃣ Mwanamke mwenye ulemavu
5️⃣ Sipendi kusema

*Andika nambari ya chaguo lako (1-5)*`,
}

// interactiveHeader holds the header text for the interactive rendering of a
// question state.
var interactiveHeader = map[models.State]map[models.Language]string{
	models.StateEconomicActivity: {
		models.LanguageEnglish: "Economic Activity",
		models.LanguageSwahili: "Shughuli za Kiuchumi",
	},
	models.StateGenderDisability: {
		models.LanguageEnglish: "Gender & Disability",
		models.LanguageSwahili: "Jinsia na Ulemavu",
	},
}

var interactiveBody = map[models.State]map[models.Language]string{
	models.StateEconomicActivity: {
		models.LanguageEnglish: "What is your economic activity?",
		models.LanguageSwahili: "Kama vijana, wewe unafanya nini kiuchumi?",
	},
	models.StateGenderDisability: {
		models.LanguageEnglish: "Please specify your gender and disability status:",
		models.LanguageSwahili: "Je, wewe ni:",
	},
}

var activityOptionTitles = map[models.Language][]string{
	models.LanguageEnglish: {"Student", "Farmer", "Entrepreneur", "Worker", "Unemployed", "Other"},
	models.LanguageSwahili: {"Mwanafunzi", "Mkulima", "Mjasiriamali", "Mfanyakazi", "Bila ajira", "Nyingine"},
}

var genderOptionTitles = map[models.Language][]string{
	models.LanguageEnglish: {"Male", "Female", "Male + Disability", "Female + Disability", "Prefer not to say"},
	models.LanguageSwahili: {"Mwanaume", "Mwanamke", "Mwanaume + Ulemavu", "Mwanamke + Ulemavu", "Sipendi kusema"},
}

// overviewByActivity holds the personalized overview bodies. The original
// authored these in Swahili for every language; only the addenda and the menu
// below are localized.
var overviewByActivity = map[models.EconomicActivity]string{
	models.ActivityStudent: `📚 *Kama Mwanafunzi Vijana*

DIRA 2050 inakutegemea kujenga uwezo wa vijana (Nguzo ya Pili: Uwezo wa Watu na Maendeleo ya Jamii). Dira inalenga kuwapa vijana elimu na ujuzi stahiki ili kushiriki katika uchumi wa kisasa, kuondoa umaskini mkubwa, na kuunda ajira milioni.

*Lengo kuu:* 25% ya Watanzania wafike elimu ya juu, na vijana kuwa nguzo ya uvumbuzi na ujasiriamali. Hii itaongeza kipato cha kila mtu hadi USD 7,000 na kukuza usawa wa kijinsia na ulemavu.

*Maeneo unayoweza kuzingatia:*
1️⃣ Jenga ujuzi wa kidijitali na ujasiriamali
2️⃣ Shiriki katika shughuli za jamii kukuza umoja
3️⃣ Tumia elimu yako kuhifadhi mazingira
4️⃣ Pata mafunzo ya ziada ili kushindana sokoni
5️⃣ Thibiti uzalendo na vipaji vyako

Je, unataka maelezo zaidi, quiz, au kutuma maoni?`,
	models.ActivityFarmer: `🌾 *Kama Mkulima Vijana*

DIRA 2050 inakutambua kama nguzo ya Uchumi Imara, Jumuishi na Shindani (Nguzo ya Kwanza). Dira inalenga kufanya Tanzania kinara wa chakula Afrika na top 10 duniani kupitia sekta ya kilimo, kuongeza mauzo ya nje, na kuunda ajira kwa vijana.

*Lengo:* Universal access to clean water na 90% energy for productive farming. Hii itachangia ukuaji wa 8-10% wa uchumi na kupunguza umasikini.

*Maeneo unayoweza kuzingatia:*
1️⃣ Tumia teknolojia bunifu kama bayoteknolojia
2️⃣ Shiriki ushirikiano wa umma-binafsi (PPP)
3️⃣ Rasimisha shughuli zako ili kupata mikopo nafuu
4️⃣ Lindeni ardhi na maji ili kutoa kilimo endelevu
5️⃣ Jenga vipaji vyako katika ujasiriamali

Je, unataka maelezo zaidi, quiz, au kutuma maoni?`,
	models.ActivityEntrepreneur: `💼 *Kama Mjasiriamali Vijana*

DIRA 2050 inakutegemea kujenga Sekta Binafsi Imara (Nguzo ya Kwanza: Uchumi Imara). Dira inalenga kuwawezesha vijana katika ujasiriamali na uvumbuzi ili kuchangia uchumi wa USD 1 trilioni, kuunda ajira, na kukuza ushirikiano kimataifa.

*Vijana ni sehemu kubwa ya idadi ya watu na nguzo muhimu katika maendeleo.*

*Maeneo unayoweza kuzingatia:*
1️⃣ Vumbua bidhaa mpya na tumia kidijitali
2️⃣ Shiriki PPP ili kupata mitaji na msaada
3️⃣ Thibiti rushwa na kushiriki uongozi bora
4️⃣ Lindeni mazingira katika biashara yako
5️⃣ Jenga mtandao na vijana wengine

Je, unataka maelezo zaidi, quiz, au kutuma maoni?`,
	models.ActivityWorker: `👷 *Kama Mfanyakazi Vijana*

DIRA 2050 inakutambua kama mchangiaji muhimu katika Uchumi Imara (Nguzo ya Kwanza). Dira inalenga kuunda ajira milioni na kuimarisha sekta mbalimbali ili kuchangia uchumi wa USD 1 trilioni.

*Lengo:* Kuongeza ajira na kipato cha vijana, pamoja na usawa wa kijinsia na ulemavu.

*Maeneo unayoweza kuzingatia:*
1️⃣ Jenga ujuzi wa ziada katika sekta yako
2️⃣ Shiriki katika mafunzo ya uongozi
3️⃣ Thibiti maadili ya kazi na uongozi bora
4️⃣ Jenga mtandao na wafanyakazi wengine
5️⃣ Shiriki katika maamuzi ya sekta

Je, unataka maelezo zaidi, quiz, au kutuma maoni?`,
	models.ActivityUnemployed: `🤝 *Kama Vijana Bila Ajira*

DIRA 2050 inalenga kuunda ajira milioni kwa vijana na kuondoa umasikini. Dira inasisitiza fursa sawa kwa vijana, wanawake, na wenye ulemavu katika ajira na ujasiriamali.

*Lengo:* Kuongeza ajira na kipato cha vijana, pamoja na elimu na ujuzi stahiki.

*Maeneo unayoweza kuzingatia:*
1️⃣ Jifunze ujuzi mpya wa kidijitali
2️⃣ Jiunge na mafunzo ya ujasiriamali
3️⃣ Shiriki katika shughuli za jamii
4️⃣ Tafuta fursa za ajira au biashara
5️⃣ Jenga mtandao na vijana wengine

Je, unataka maelezo zaidi, quiz, au kutuma maoni?`,
}

// overviewGeneric covers "other" and any unanswered activity.
const overviewGeneric = `🌟 *Kama Vijana wa Tanzania*

DIRA 2050 inakutegemea kama mchangiaji muhimu katika maendeleo ya nchi. Dira inalenga kuwa nchi yenye uchumi imara wa dola trilioni 1, elimu bora, na maisha bora kwa wote.

*Lengo kuu:* Kuongeza kipato cha kila mtu hadi USD 7,000 na kukuza usawa wa kijinsia na ulemavu.

*Maeneo unayoweza kuzingatia:*
1️⃣ Jenga ujuzi wa kidijitali na ujasiriamali
2️⃣ Shiriki katika shughuli za jamii
3️⃣ Thibiti maadili ya kitaifa
4️⃣ Jenga mtandao na vijana wengine
5️⃣ Shiriki katika maamuzi ya jamii

Je, unataka maelezo zaidi, quiz, au kutuma maoni?`

var femaleAddendum = map[models.Language]string{
	models.LanguageEnglish: "\n\n*As a young woman, DIRA emphasizes gender equality in employment and land ownership.*",
	models.LanguageSwahili: "\n\n*Kama mwanamke vijana, DIRA inasisitiza usawa wa kijinsia katika ajira na umiliki wa ardhi.*",
}

var disabilityAddendum = map[models.Language]string{
	models.LanguageEnglish: "\n\n*As a person with disability, DIRA emphasizes empowerment and equal opportunities in development.*",
	models.LanguageSwahili: "\n\n*Kama mwenye ulemavu, DIRA inasisitiza uwezeshaji na fursa sawa katika maendeleo.*",
}

var overviewMenu = map[models.Language]string{
	models.LanguageEnglish: "\n\n*What would you like to do next?*\n\n1️⃣ Take Quiz\n2️⃣ Get Details\n3️⃣ Give Feedback\n4️⃣ View PDF Summary\n5️⃣ Restart\n\n*Type the number of your choice (1-5)*",
	models.LanguageSwahili: "\n\n*Je, unataka kufanya nini baadaye?*\n\n1️⃣ Anza Quiz\n2️⃣ Pata Maelezo\n3️⃣ Toa Maoni\n4️⃣ Angalia PDF\n5️⃣ Anza Upya\n\n*Andika nambari ya chaguo lako (1-5)*",
}

var overviewMenuReprompt = map[models.Language]string{
	models.LanguageEnglish: `*Please choose an option:*

1️⃣ Take Quiz
2️⃣ Get Details
3️⃣ Give Feedback
4️⃣ View PDF Summary
5️⃣ Restart

*Type the number of your choice (1-5)*`,
	models.LanguageSwahili: `*Tafadhali chagua moja ya chaguzi zifuatazo:*

1️⃣ Anza Quiz
2️⃣ Pata Maelezo
3️⃣ Toa Maoni
4️⃣ Angalia PDF
5️⃣ Anza Upya

*Andika nambari ya chaguo lako (1-5)*`,
}

var detailsByActivity = map[models.EconomicActivity]string{
	models.ActivityStudent: `📚 *Maelezo zaidi kwa Mwanafunzi*

*Nguzo ya Pili: Uwezo wa Watu na Maendeleo ya Jamii*
• Lengo: 25% ya Watanzania wafike elimu ya juu
• Vijana kuwa nguzo ya uvumbuzi na ujasiriamali
• Kuongeza kipato cha kila mtu hadi USD 7,000

*Vichocheo vya Sayansi na Teknolojia:*
• Jifunze teknolojia mpya
• Jiunge na programu za uvumbuzi
• Tumia kidijitali katika masomo yako

*Utawala Bora:*
• Shiriki katika shughuli za jamii
• Jenga uongozi bora
• Thibiti maadili ya kitaifa

*Uhifadhi wa Mazingira:*
• Jifunze kuhusu tabianchi
• Shiriki katika shughuli za mazingira
• Tumia teknolojia endelevu

Je, unataka quiz, maoni, au "Anza" kuanza upya?`,
	models.ActivityFarmer: `🌾 *Maelezo zaidi kwa Mkulima*

*Nguzo ya Kwanza: Uchumi Imara, Jumuishi na Shindani*
• Lengo: Tanzania kuwa kinara wa chakula Afrika
• Kuongeza mauzo ya nje
• Kuunda ajira kwa vijana

*Vichocheo vya Nishati na Uhifadhi wa Mazingira:*
• Tumia teknolojia bunifu
• Bayoteknolojia kuongeza tija
• Kupunguza athari za tabianchi

*Sekta za Mageuzi:*
• Kilimo endelevu
• Ushirikiano wa umma-binafsi (PPP)
• Miundombinu bora (barabara, umwagiliaji)

*Uwekezaji na Ajira:*
• Rasimisha shughuli zako
• Kupata mikopo nafuu
• Kushiriki uchumi rasmi

Je, unataka quiz, maoni, au "Anza" kuanza upya?`,
	models.ActivityEntrepreneur: `💼 *Maelezo zaidi kwa Mjasiriamali*

*Nguzo ya Kwanza: Uchumi Imara*
• Sekta Binafsi Imara
• Ujasiriamali na uvumbuzi
• Uchumi wa USD 1 trilioni

*Vichocheo vya Mageuzi ya Kidijitali na Uvumbuzi:*
• E-commerce kuuza nje
• Teknolojia mpya
• Bidhaa za uvumbuzi

*Ushirikiano wa Umma-Binafsi (PPP):*
• Kupata mitaji
• Msaada wa serikali
• Mazingira ya biashara

*Utawala Bora:*
• Thibiti rushwa
• Uongozi bora
• Usawa wa kijinsia na ulemavu

*Uhifadhi wa Mazingira:*
• Bidhaa endelevu
• Teknolojia ya kijani
• Mazingira ya biashara

Je, unataka quiz, maoni, au "Anza" kuanza upya?`,
}

// detailsGeneric covers activities without a dedicated details page.
const detailsGeneric = `🌟 *Maelezo zaidi kuhusu DIRA 2050*

*Lengo kuu:* Tanzania kuwa nchi yenye uchumi imara wa dola trilioni 1, elimu bora, na maisha bora kwa wote ifikapo 2050.

*Nguzo kuu 3:*
1. Uchumi Imara, Jumuishi na Shindani
2. Uwezo wa Watu na Maendeleo ya Jamii
3. Uhifadhi wa Mazingira na Maendeleo Endelevu

*Msingi Mkuu:* Utawala Bora, Amani na Usalama

*Vichocheo vya Maendeleo:*
• Sayansi na Teknolojia
• Nishati na Uhifadhi wa Mazingira
• Mageuzi ya Kidijitali na Uvumbuzi

*Lengo la kipato:* USD 7,000 kwa kila mtu
*Lengo la ajira:* Milioni 10

Je, unataka quiz, maoni, au "Anza" kuanza upya?`

const pdfInfoMessage = `📄 *Muhtasari wa Kurasa za DIRA 2050*

*Kurasa muhimu:*
• Ukurasa 1-10: Utangulizi na malengo
• Ukurasa 11-30: Nguzo ya Kwanza (Uchumi)
• Ukurasa 31-50: Nguzo ya Pili (Uwezo wa Watu)
• Ukurasa 51-70: Nguzo ya Tatu (Mazingira)
• Ukurasa 71-90: Msingi Mkuu (Utawala)

*Kwa PDF kamili:*
Tembelea: www.planning.go.tz

*Au andika nambari ya ukurasa (k.m. "25") ili upate muhtasari wa ukurasa husika.*

Je, unataka quiz, maoni, au "Anza" kuanza upya?`

const feedbackPrompt = `💬 *Maoni yako ni muhimu!*

Tafadhali toa maoni yako kuhusu DIRA 2050 Chatbot:

• Je, maelezo yamekuwa muhimu?
• Je, unataka kuona kitu kingine?
• Je, una mapendekezo yoyote?

Andika maoni yako hapa chini. Tutayapeleka kwa Tume ya Mipango.

*Au andika "Anza" kuanza upya mazungumzo.*`

const feedbackThanks = `Asante kwa maoni yako kuhusu DIRA 2050!

Tutayapeleka kwa Tume ya Mipango ili kuboresha huduma.

Je, unataka maelezo zaidi, quiz, au "Anza" kuanza upya?`

var defaultReprompt = map[models.Language]string{
	models.LanguageEnglish: `Sorry, I didn't understand. Please choose one of the following options:

1️⃣ Take Quiz
2️⃣ Get Details
3️⃣ Give Feedback
4️⃣ View PDF Summary
5️⃣ Restart
6️⃣ Help

*Type the number of your choice (1-6)*`,
	models.LanguageSwahili: `Samahani, sijaelewa. Tafadhali chagua moja ya chaguzi zifuatazo:

1️⃣ Anza Quiz
2️⃣ Pata Maelezo
3️⃣ Toa Maoni
4️⃣ Angalia PDF
5️⃣ Anza Upya
6️⃣ Msaada

*Andika nambari ya chaguo lako (1-6)*`,
}

var apologyMessage = map[models.Language]string{
	models.LanguageEnglish: "Sorry, there is a technical problem. Please try again later.",
	models.LanguageSwahili: "Samahani, kuna tatizo la kiufundi. Jaribu tena baadaye.",
}

const (
	textOnlyNotice    = "\n\nKwa sasa naweza kushughulika na ujumbe wa maandishi tu. Tafadhali tumia maandishi."
	unsupportedAck    = "Nimepokea ujumbe wako. Kwa sasa naweza kushughulika na ujumbe wa maandishi tu."
	unknownFileName   = "Faili isiyojulikana"
)

// langOrDefault normalizes an unset or unknown language to Swahili.
func langOrDefault(l models.Language) models.Language {
	if l == models.LanguageEnglish {
		return models.LanguageEnglish
	}
	return models.LanguageSwahili
}

// WelcomeMessage returns the bilingual welcome and language prompt.
func WelcomeMessage() string { return welcomeMessage }

// HelpMessage returns the help text.
func HelpMessage() string { return helpMessage }

// ActivityQuestion returns the six-option activity question for a language.
func ActivityQuestion(lang models.Language) string {
	return activityQuestion[langOrDefault(lang)]
}

// GenderQuestion returns the five-option gender/disability question.
func GenderQuestion(lang models.Language) string {
	return genderQuestion[langOrDefault(lang)]
}

// PersonalizedOverview composes the overview body for a session: the
// activity-specific base, gender and disability addenda, and the next-step menu.
func PersonalizedOverview(session *models.Session) string {
	lang := langOrDefault(session.Language)
	message, ok := overviewByActivity[session.EconomicActivity]
	if !ok {
		message = overviewGeneric
	}
	if session.Gender == models.GenderFemale {
		message += femaleAddendum[lang]
	}
	if session.HasDisability {
		message += disabilityAddendum[lang]
	}
	message += overviewMenu[lang]
	return message
}

// OverviewMenuReprompt returns the menu re-prompt for the overview state.
func OverviewMenuReprompt(lang models.Language) string {
	return overviewMenuReprompt[langOrDefault(lang)]
}

// DetailedInfo returns the extended information page for an activity.
func DetailedInfo(activity models.EconomicActivity) string {
	if message, ok := detailsByActivity[activity]; ok {
		return message
	}
	return detailsGeneric
}

// PDFInfo returns the PDF summary page.
func PDFInfo() string { return pdfInfoMessage }

// FeedbackPrompt returns the feedback request message.
func FeedbackPrompt() string { return feedbackPrompt }

// FeedbackThanks returns the thanks message after feedback is captured.
func FeedbackThanks() string { return feedbackThanks }

// DefaultReprompt returns the fallback menu for unrecognized input or state.
func DefaultReprompt(lang models.Language) string {
	return defaultReprompt[langOrDefault(lang)]
}

// Apology returns the generic technical-problem apology in the session's
// language, or Swahili when the language is unset.
func Apology(lang models.Language) string {
	return apologyMessage[langOrDefault(lang)]
}

// ImageAck returns the acknowledgment for an inbound image, naming the
// caption when one is present.
func ImageAck(caption string) string {
	ack := "📸 Nimepokea picha yako!"
	if caption != "" {
		ack += fmt.Sprintf("\nMaelezo: %s", caption)
	}
	return ack + textOnlyNotice
}

// DocumentAck returns the acknowledgment for an inbound document.
func DocumentAck(filename string) string {
	if filename == "" {
		filename = unknownFileName
	}
	return fmt.Sprintf("📄 Nimepokea faili yako: %s", filename) + textOnlyNotice
}

// UnsupportedAck returns the acknowledgment for unsupported message types.
func UnsupportedAck() string { return unsupportedAck }

// InteractiveQuestion renders the interactive variant of a question state:
// header, short body, and the full labelled option set. The transport decides
// between a button set and a list based on option count.
func InteractiveQuestion(state models.State, lang models.Language, to string) (models.Outbound, bool) {
	lang = langOrDefault(lang)
	headers, ok := interactiveHeader[state]
	if !ok {
		return models.Outbound{}, false
	}

	var titles []string
	switch state {
	case models.StateEconomicActivity:
		titles = activityOptionTitles[lang]
	case models.StateGenderDisability:
		titles = genderOptionTitles[lang]
	default:
		return models.Outbound{}, false
	}

	options := make([]models.OutboundOption, len(titles))
	for i, title := range titles {
		options[i] = models.OutboundOption{ID: fmt.Sprintf("option_%d", i+1), Title: title}
	}
	return models.NewInteractiveMessage(to, headers[lang], interactiveBody[state][lang], options), true
}
