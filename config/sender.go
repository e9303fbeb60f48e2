package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	_ "github.com/lib/pq"
	"github.com/skip2/go-qrcode"
	"gopkg.in/gomail.v2"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
)

var (
	meowWhatsapp *whatsmeow.Client
	qrCodeSent   bool
	mu           sync.Mutex
)

// InitSender boots the WhatsApp client and the SMTP dialer used for decision
// notifications. When no WhatsApp session exists yet, the login QR code is
// rendered to a PNG and emailed to the operator so the server can be paired.
func InitSender() (*whatsmeow.Client, *gomail.Dialer, error) {
	dialer, err := InitMailer()
	if err != nil {
		return nil, nil, err
	}

	emailSender, err := GetEmailSender()
	if err != nil {
		return nil, nil, err
	}

	meowAddress := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))

	ctx := context.Background()
	container, err := sqlstore.New(ctx, "postgres", meowAddress, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("whatsapp session store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("whatsapp device store: %w", err)
	}

	mClient := whatsmeow.NewClient(deviceStore, nil)
	meowWhatsapp = mClient

	if meowWhatsapp.Store.ID == nil {
		qrChan, _ := meowWhatsapp.GetQRChannel(ctx)
		if err := meowWhatsapp.Connect(); err != nil {
			return nil, nil, fmt.Errorf("whatsapp connect: %w", err)
		}

		// Process QR code
		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					mu.Lock()
					if !qrCodeSent {
						fmt.Println("")
						fmt.Println("IMPORTANT no WhatsApp session was found !!")
						fmt.Println("Need admin to scan the QR code for the server to run properly!")
						fmt.Println("Loading...")

						if err := generateQRCode(evt.Code, "qrcode.png"); err != nil {
							fmt.Println("failed to render login QR:", err)
							mu.Unlock()
							continue
						}

						if err := sendQRtoEmail(dialer, emailSender, "qrcode.png"); err != nil {
							fmt.Println("failed to email login QR:", err)
							mu.Unlock()
							continue
						}
						fmt.Printf("Image of QR Code is sent to %s, go ahead and scan them :)\n", emailSender)
						fmt.Println("")

						qrCodeSent = true
					}
					mu.Unlock()
				} else {
					fmt.Println("Login event:", evt.Event)
				}
			}
		}()
	} else {
		if err := meowWhatsapp.Connect(); err != nil {
			return nil, nil, fmt.Errorf("whatsapp connect: %w", err)
		}
	}

	return meowWhatsapp, dialer, nil
}

func InitMailer() (*gomail.Dialer, error) {
	host, err := getSMTPHost()
	if err != nil {
		return nil, err
	}
	port, err := getSMTPPort()
	if err != nil {
		return nil, err
	}
	sender, err := GetEmailSender()
	if err != nil {
		return nil, err
	}
	password, err := getEmailPassword()
	if err != nil {
		return nil, err
	}

	return gomail.NewDialer(host, port, sender, password), nil
}

func generateQRCode(content, filename string) error {
	return qrcode.WriteFile(content, qrcode.Medium, 512, filename)
}

func sendQRtoEmail(dialer *gomail.Dialer, emailAddress, qrPath string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", emailAddress)
	m.SetHeader("To", emailAddress)
	m.SetHeader("Subject", "SPMB WhatsApp Login QR Code")
	m.SetBody("text/plain", "Scan the attached QR code with the school WhatsApp account to pair the SPMB server.")
	m.Attach(qrPath)

	return dialer.DialAndSend(m)
}

func GetEmailSender() (string, error) {
	emailSender := os.Getenv("EMAIL_SENDER")
	if emailSender == "" {
		return "", fmt.Errorf("empty email sender")
	}
	return emailSender, nil
}

func getEmailPassword() (string, error) {
	v := os.Getenv("EMAIL_PASSWORD")
	if v == "" {
		return "", fmt.Errorf("empty email password")
	}
	return v, nil
}

func getSMTPHost() (string, error) {
	v := os.Getenv("SMTP_HOST")
	if v == "" {
		return "", fmt.Errorf("empty smtp host")
	}
	return v, nil
}

func getSMTPPort() (int, error) {
	v := os.Getenv("SMTP_PORT")
	if v == "" {
		return 0, fmt.Errorf("empty smtp port")
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid smtp port: %w", err)
	}
	return port, nil
}

func GetSchoolPhone() (string, error) {
	sp := os.Getenv("SCHOOL_PHONE")
	if sp == "" {
		return "", fmt.Errorf("empty school phone number")
	}
	return sp, nil
}
