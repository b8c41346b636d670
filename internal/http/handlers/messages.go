package handlers

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys for the direct-confirmation endpoint. The storefront shows
// these strings to the buyer, so they are translated.
const (
	msgConfirmed        = "payment confirmed"
	msgAlreadyConfirmed = "payment already confirmed"
	msgOrderNotFound    = "order not found"
	msgInvalidStatus    = "payment status %q is not a success"
	msgAmountMismatch   = "paid amount does not match the order total"
	msgNotConfirmable   = "order can no longer be paid"
	msgInvalidRequest   = "order_id and status are required"
	msgConfirmFailed    = "payment could not be confirmed, please retry"
)

var supportedLocales = []language.Tag{language.English, language.Indonesian}

var localeMatcher = language.NewMatcher(supportedLocales)

var confirmCatalog = newConfirmCatalog()

func newConfirmCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(key, en, id string) {
		_ = b.SetString(language.English, key, en)
		_ = b.SetString(language.Indonesian, key, id)
	}
	set(msgConfirmed, "Payment confirmed.", "Pembayaran berhasil dikonfirmasi.")
	set(msgAlreadyConfirmed, "Payment was already confirmed.", "Pembayaran sudah dikonfirmasi sebelumnya.")
	set(msgOrderNotFound, "Order not found.", "Pesanan tidak ditemukan.")
	set(msgInvalidStatus, "Payment status %q is not a success.", "Status pembayaran %q bukan status berhasil.")
	set(msgAmountMismatch, "The paid amount does not match the order total.", "Jumlah pembayaran tidak sesuai dengan total pesanan.")
	set(msgNotConfirmable, "This order can no longer be paid.", "Pesanan ini tidak dapat dibayar lagi.")
	set(msgInvalidRequest, "order_id and status are required.", "order_id dan status wajib diisi.")
	set(msgConfirmFailed, "Payment could not be confirmed, please retry.", "Pembayaran gagal dikonfirmasi, silakan coba lagi.")
	return b
}

// printerFor picks the best supported locale from Accept-Language, falling
// back to def.
func printerFor(c *gin.Context, def language.Tag) *message.Printer {
	tag := def
	if prefs, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language")); err == nil && len(prefs) > 0 {
		if _, idx, conf := localeMatcher.Match(prefs...); conf != language.No {
			tag = supportedLocales[idx]
		}
	}
	return message.NewPrinter(tag, message.Catalog(confirmCatalog))
}
