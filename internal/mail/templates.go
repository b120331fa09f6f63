package mail

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderConfirmation builds the post-checkout notification for a placed order.
func OrderConfirmation(to, name, orderID, trackingID string, price, discount, deliveryCharges, finalTotal decimal.Decimal) Message {
	html := fmt.Sprintf(`<div>
  <h1>Order Confirmation</h1>
  <p>Thank you for your order, %s!</p>
  <p><strong>Order ID:</strong> %s</p>
  <p><strong>Tracking ID:</strong> %s</p>
  <p><strong>Total Amount:</strong> ₹%s</p>
  <p><strong>Discount:</strong> ₹%s</p>
  <p><strong>Delivery Charges:</strong> ₹%s</p>
  <p><strong>Final Amount:</strong> ₹%s</p>
</div>`, name, orderID, trackingID, price, discount, deliveryCharges, finalTotal)

	return Message{
		To:      to,
		Subject: "Order Confirmation",
		HTML:    html,
	}
}

// SellerVerification builds the email-verification message sent at seller signup.
func SellerVerification(to, verificationLink string) Message {
	return Message{
		To:      to,
		Subject: "Verify Your Email",
		Text:    fmt.Sprintf("Click the link to verify your email: %s", verificationLink),
		HTML:    fmt.Sprintf(`<p>Click <a href="%s">here</a> to verify your email.</p>`, verificationLink),
	}
}

// CouponAnnouncement builds the broadcast sent to users when a coupon is created.
func CouponAnnouncement(to, code string, discountPercentage decimal.Decimal, expiryDate string) Message {
	return Message{
		To:      to,
		Subject: "New Coupon Available!",
		Text: fmt.Sprintf("A new coupon %s is now available with %s%% discount. Use it before %s!",
			code, discountPercentage, expiryDate),
	}
}

// CouponRemoved builds the broadcast sent to users when a coupon is deleted.
func CouponRemoved(to, code string) Message {
	return Message{
		To:      to,
		Subject: "Coupon Expired",
		Text:    fmt.Sprintf("The coupon %s has expired and is no longer valid.", code),
	}
}
