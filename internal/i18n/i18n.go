// Package i18n holds the static customer-facing string table. Lookup is pure:
// unknown keys come back unchanged so screens always have something to render.
package i18n

// Language selects one of the shipped translation tables.
type Language string

const (
	// LanguageTurkish is the default customer-facing language.
	LanguageTurkish Language = "tr"
	// LanguageEnglish selects the English table.
	LanguageEnglish Language = "en"
	// LanguageArabic selects the Arabic table.
	LanguageArabic Language = "ar"

	// DefaultLanguage is used when a screen has no explicit language selection.
	DefaultLanguage = LanguageTurkish
)

var translations = map[Language]map[string]string{
	LanguageTurkish: {
		"feedback.question":    "Deneyiminiz nasıldı?",
		"complaint.title":      "Müşterilerimizin %100 memnun olmasını istiyoruz. Lütfen neden kötü bir deneyim yaşadığınızı bize bildirin, böylece hizmetimizi geliştirebiliriz.",
		"complaint.name":       "Adınızı giriniz",
		"complaint.phone":      "Telefon numaranız",
		"complaint.email":      "E-posta adresinizi giriniz",
		"complaint.email_invalid": "Geçerli bir e-posta adresi giriniz",
		"complaint.review":     "Lütfen deneyiminizi detaylı olarak paylaşın...",
		"complaint.consent":    "Kişisel Verilerin İşlenmesine İzin Veriyorum",
		"complaint.submit":     "Gönder",
		"complaint.submitting": "Gönderiliyor...",
		"complaint.food":       "Yiyecek",
		"complaint.service":    "Hizmet",
		"complaint.atmosphere": "Atmosfer",
		"complaint.required":   "Zorunlu alan",
		"complaint.success":    "Geri bildiriminiz için teşekkürler",
		"complaint.error":      "Bir hata oluştu, lütfen tekrar deneyin",
		"complaint.restaurant": "Restoran bulunamadı",
		"review.title":         "Fikirleriniz bizim için değerli! Geri bildirimleriniz bize daha iyi hizmet vermemize yardımcı olacaktır.",
		"language":             "TR",
	},
	LanguageEnglish: {
		"feedback.question":    "How was your experience?",
		"complaint.title":      "We want our customers to be 100% satisfied. Please let us know why you had a bad experience, so we can improve our service.",
		"complaint.name":       "Enter your name",
		"complaint.phone":      "Phone number",
		"complaint.email":      "Enter your email address",
		"complaint.email_invalid": "Please enter a valid email address",
		"complaint.review":     "Please share your experience in detail...",
		"complaint.consent":    "I consent to the processing of personal data",
		"complaint.submit":     "Submit",
		"complaint.submitting": "Submitting...",
		"complaint.food":       "Food",
		"complaint.service":    "Service",
		"complaint.atmosphere": "Atmosphere",
		"complaint.required":   "Required field",
		"complaint.success":    "Thank you for your feedback",
		"complaint.error":      "Something went wrong, please try again",
		"complaint.restaurant": "Restaurant not found",
		"review.title":         "Your opinions are valuable to us! Your feedback will help us provide better service.",
		"language":             "EN",
	},
	LanguageArabic: {
		"feedback.question":    "كيف كانت تجربتك؟",
		"complaint.title":      "نريد أن يكون عملاؤنا راضين بنسبة 100٪. يرجى إخبارنا بسبب تجربتك السيئة، حتى نتمكن من تحسين خدمتنا.",
		"complaint.name":       "أدخل اسمك",
		"complaint.phone":      "رقم الهاتف",
		"complaint.email":      "أدخل عنوان بريدك الإلكتروني",
		"complaint.email_invalid": "الرجاء إدخال عنوان بريد إلكتروني صالح",
		"complaint.review":     "يرجى مشاركة تجربتك بالتفصيل...",
		"complaint.consent":    "أوافق على معالجة البيانات الشخصية",
		"complaint.submit":     "إرسال",
		"complaint.submitting": "جار الإرسال...",
		"complaint.food":       "الطعام",
		"complaint.service":    "الخدمة",
		"complaint.atmosphere": "الأجواء",
		"complaint.required":   "حقل مطلوب",
		"complaint.success":    "شكرا لملاحظاتك",
		"complaint.error":      "حدث خطأ، يرجى المحاولة مرة أخرى",
		"complaint.restaurant": "المطعم غير موجود",
		"review.title":         "آراؤكم قيمة بالنسبة لنا! ستساعدنا ملاحظاتكم على تقديم خدمة أفضل.",
		"language":             "عربي",
	},
}

// Lookup resolves a translation key for the given language. Unknown languages
// fall back to the default language; unknown keys return the key itself.
func Lookup(language Language, key string) string {
	table, languageKnown := translations[language]
	if !languageKnown {
		table = translations[DefaultLanguage]
	}
	if translated, keyKnown := table[key]; keyKnown {
		return translated
	}
	return key
}

// RightToLeft reports whether the language renders right to left.
func RightToLeft(language Language) bool {
	return language == LanguageArabic
}

// Supported lists the shipped languages in selector order.
func Supported() []Language {
	return []Language{LanguageTurkish, LanguageEnglish, LanguageArabic}
}
