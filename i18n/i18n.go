package i18n

import (
	"context"
	"net/http"
	"strings"
)

// Default is the language used when nothing else matches.
const Default = "en"

var translations = map[string]map[string]string{
	"en": {
		// violation codes
		"required":                  "This field is required.",
		"blank":                     "This field may not be blank.",
		"too_long":                  "Ensure this field is not too long.",
		"invalid":                   "Invalid value.",
		"invalid_email":             "Enter a valid email address.",
		"invalid_username":          "Enter a valid username. It may contain only letters, numbers and @/./+/-/_ characters.",
		"does_not_exist":            "The selected object does not exist.",
		"username_taken":            "A user with that username already exists.",
		"password_too_short":        "This password is too short. It must contain at least 8 characters.",
		"password_entirely_numeric": "This password is entirely numeric.",
		"password_too_similar":      "The password is too similar to the user's details.",
		"password_too_common":       "This password is too common.",
		"password_mismatch":         "Passwords do not match.",
		"file_too_large":            "The uploaded file is too large.",
		"invalid_image":             "Upload a valid image.",

		// messages
		"invalid_data":               "Invalid data.",
		"credentials_required":       "Please enter a username and password.",
		"invalid_credentials":        "Invalid username or password.",
		"not_authenticated":          "Authentication credentials were not provided.",
		"invalid_token":              "Invalid token.",
		"internal_error":             "Internal server error.",
		"invalid_page":               "Invalid page.",
		"registered":                 "Registration successful.",
		"profile_created":            "Profile created successfully.",
		"profile_updated":            "Profile updated successfully.",
		"profile_deleted":            "Profile and user deleted successfully.",
		"profile_not_found":          "Profile not found.",
		"profile_update_not_found":   "Profile to update not found.",
		"profile_delete_not_found":   "Profile to delete not found.",
		"user_type_created":          "User type created successfully.",
		"user_type_updated":          "User type updated successfully.",
		"user_type_deleted":          "User type deleted successfully.",
		"user_type_not_found":        "User type not found.",
		"user_type_update_not_found": "User type to update not found.",
		"user_type_delete_not_found": "User type to delete not found.",
		"user_role_created":          "User role created successfully.",
		"user_role_updated":          "User role updated successfully.",
		"user_role_deleted":          "User role deleted successfully.",
		"user_role_not_found":        "User role not found.",
		"user_role_update_not_found": "User role to update not found.",
		"user_role_delete_not_found": "User role to delete not found.",
		"media_not_found":            "File not found.",
	},
	"tr": {
		"required":                  "Bu alan zorunludur.",
		"blank":                     "Bu alan boş bırakılamaz.",
		"too_long":                  "Bu alanın çok uzun olmadığından emin olun.",
		"invalid":                   "Geçersiz değer.",
		"invalid_email":             "Geçerli bir e-posta adresi girin.",
		"invalid_username":          "Geçerli bir kullanıcı adı girin. Yalnızca harf, rakam ve @/./+/-/_ karakterleri içerebilir.",
		"does_not_exist":            "Seçilen kayıt mevcut değil.",
		"username_taken":            "Bu kullanıcı adı zaten alınmış.",
		"password_too_short":        "Bu parola çok kısa. En az 8 karakter içermelidir.",
		"password_entirely_numeric": "Bu parola tamamen sayısal.",
		"password_too_similar":      "Parola kullanıcı bilgilerine çok benziyor.",
		"password_too_common":       "Bu parola çok yaygın.",
		"password_mismatch":         "Şifreler eşleşmiyor.",
		"file_too_large":            "Yüklenen dosya çok büyük.",
		"invalid_image":             "Geçerli bir resim yükleyin.",

		"invalid_data":               "Geçersiz veri.",
		"credentials_required":       "Lütfen kullanıcı adı ve şifre giriniz.",
		"invalid_credentials":        "Geçersiz kullanıcı adı veya şifre.",
		"not_authenticated":          "Kimlik doğrulama bilgileri sağlanmadı.",
		"invalid_token":              "Geçersiz token.",
		"internal_error":             "Sunucu hatası.",
		"invalid_page":               "Geçersiz sayfa.",
		"registered":                 "Kayıt başarılı.",
		"profile_created":            "Profil başarıyla oluşturuldu.",
		"profile_updated":            "Profil başarıyla güncellendi.",
		"profile_deleted":            "Profil ve kullanıcı başarıyla silindi.",
		"profile_not_found":          "Profil bulunamadı.",
		"profile_update_not_found":   "Güncellenecek profil bulunamadı.",
		"profile_delete_not_found":   "Silinecek profil bulunamadı.",
		"user_type_created":          "Kullanıcı tipi başarıyla oluşturuldu.",
		"user_type_updated":          "Kullanıcı tipi başarıyla güncellendi.",
		"user_type_deleted":          "Kullanıcı tipi başarıyla silindi.",
		"user_type_not_found":        "Kullanıcı tipi bulunamadı.",
		"user_type_update_not_found": "Güncellenecek kullanıcı tipi bulunamadı.",
		"user_type_delete_not_found": "Silinecek kullanıcı tipi bulunamadı.",
		"user_role_created":          "Kullanıcı rolü başarıyla oluşturuldu.",
		"user_role_updated":          "Kullanıcı rolü başarıyla güncellendi.",
		"user_role_deleted":          "Kullanıcı rolü başarıyla silindi.",
		"user_role_not_found":        "Kullanıcı rolü bulunamadı.",
		"user_role_update_not_found": "Güncellenecek kullanıcı rolü bulunamadı.",
		"user_role_delete_not_found": "Silinecek kullanıcı rolü bulunamadı.",
		"media_not_found":            "Dosya bulunamadı.",
	},
}

// Supported reports whether lang has a translation table.
func Supported(lang string) bool {
	_, ok := translations[lang]
	return ok
}

// DetectLanguage picks the first supported primary tag of an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		primary := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if Supported(primary) {
			return primary
		}
	}
	return Default
}

// T translates code for lang, falling back to the default language and then to the code itself.
func T(lang, code string) string {
	if msg, ok := translations[lang][code]; ok {
		return msg
	}
	if msg, ok := translations[Default][code]; ok {
		return msg
	}
	return code
}

type ctxKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFrom returns the request language stored by Middleware, or Default.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return Default
}

// Middleware resolves the language (query > cookie > Accept-Language) and stores it in the
// request context. A supported ?lang= value is persisted in a cookie.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil && Supported(c.Value) {
			lang = c.Value
		}
		if q := strings.ToLower(r.URL.Query().Get("lang")); Supported(q) {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		if lang == "" {
			lang = DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
	})
}
