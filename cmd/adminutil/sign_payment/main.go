package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/sudo-init-do/rentaskill/internal/payment"
)

// Prints the checkout signature Razorpay would return for an order/payment
// pair, for exercising /payment/verify by hand.
func main() {
	orderID := flag.String("order", "", "razorpay order id")
	paymentID := flag.String("payment", "", "razorpay payment id")
	flag.Parse()

	if *orderID == "" || *paymentID == "" {
		log.Fatalf("usage: sign_payment -order order_xxx -payment pay_xxx")
	}

	_ = godotenv.Load()
	secret := os.Getenv("RAZORPAY_KEY_SECRET")
	if secret == "" {
		log.Fatalf("RAZORPAY_KEY_SECRET not set")
	}

	fmt.Println(payment.Sign(secret, *orderID, *paymentID))
}
