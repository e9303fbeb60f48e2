package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"gopkg.in/gomail.v2"

	"spmb/domain"
)

type decisionNotifier struct {
	meowClient  *whatsmeow.Client
	dialer      *gomail.Dialer
	emailSender string
	schoolPhone string
}

// NewDecisionNotifier sends the admission decision to the guardian over
// WhatsApp, and over email when an address was given. Either channel may be
// nil/empty when not configured; the notifier then skips it.
func NewDecisionNotifier(meow *whatsmeow.Client, dialer *gomail.Dialer, emailSender, schoolPhone string) domain.Notifier {
	return &decisionNotifier{
		meowClient:  meow,
		dialer:      dialer,
		emailSender: emailSender,
		schoolPhone: schoolPhone,
	}
}

func (n *decisionNotifier) NotifyDecision(ctx context.Context, reg *domain.Registration) error {
	if reg.Status != domain.StatusAccepted && reg.Status != domain.StatusRejected {
		return nil
	}

	langValue := strings.ToLower(os.Getenv("MESSENGER_LANGUAGE"))

	var subject, body string
	if langValue == "eng" {
		subject, body = n.buildDecisionTextEnglish(reg)
	} else {
		subject, body = n.buatTeksKeputusan(reg)
	}

	var waErr, emailErr error

	if n.meowClient != nil {
		waErr = n.sendWA(ctx, reg.ParentPhone, body)
	}

	if n.dialer != nil && reg.ParentEmail != nil && *reg.ParentEmail != "" {
		emailErr = n.sendEmail(*reg.ParentEmail, subject, body)
	}

	if waErr != nil {
		return waErr
	}
	return emailErr
}

func (n *decisionNotifier) sendWA(ctx context.Context, phone, body string) error {
	if len(phone) < 2 {
		return fmt.Errorf("invalid telephone format: %s", phone)
	}
	completeFormat := fmt.Sprintf("%s%s", "62", phone[1:])

	jid := types.NewJID(completeFormat, types.DefaultUserServer)

	conversationMessage := &waE2E.Message{
		Conversation: &body,
	}

	_, err := n.meowClient.SendMessage(ctx, jid, conversationMessage)
	if err != nil {
		return err
	}
	return nil
}

func (n *decisionNotifier) sendEmail(address, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.emailSender)
	m.SetHeader("To", address)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return n.dialer.DialAndSend(m)
}

func (n *decisionNotifier) buatTeksKeputusan(reg *domain.Registration) (string, string) {
	formattedDate := time.Now().Format("02/01/2006")

	var hasil, tindakLanjut string
	if reg.Status == domain.StatusAccepted {
		hasil = "DITERIMA"
		tindakLanjut = "Silakan datang ke sekolah untuk daftar ulang dengan membawa dokumen asli (KK dan Akte Kelahiran)."
	} else {
		hasil = "BELUM DITERIMA"
		tindakLanjut = "Mohon maaf atas hasil ini. Bapak/Ibu dapat menghubungi sekolah untuk informasi lebih lanjut."
	}

	subject := fmt.Sprintf("Pengumuman Hasil SPMB a.n. %s", reg.FullName)

	body := fmt.Sprintf(`Layanan SPMB 🔔

Yth. Bapak/Ibu orang tua/wali dari %s,
Berdasarkan hasil verifikasi pendaftaran tanggal %s, ananda dinyatakan: %s di %s.

%s

Jika terdapat pertanyaan atau memerlukan bantuan lebih lanjut, Bapak/Ibu dapat menghubungi kami di %s.

Terima kasih atas perhatian dan kerjasamanya.

Hormat kami,
Panitia SPMB %s`, reg.FullName, formattedDate, hasil, domain.HomeSchool, tindakLanjut, n.schoolPhone, domain.HomeSchool)

	return subject, body
}

func (n *decisionNotifier) buildDecisionTextEnglish(reg *domain.Registration) (string, string) {
	formattedDate := time.Now().Format("02/01/2006")

	var result, followUp string
	if reg.Status == domain.StatusAccepted {
		result = "ACCEPTED"
		followUp = "Please come to the school for re-registration and bring the original documents (family card and birth certificate)."
	} else {
		result = "NOT ACCEPTED"
		followUp = "We are sorry about this result. You can contact the school for further information."
	}

	subject := fmt.Sprintf("Admission Result Announcement for %s", reg.FullName)

	body := fmt.Sprintf(`SPMB Service 🔔

Dear parent/guardian of %s,
Based on the registration verification dated %s, the applicant has been declared: %s at %s.

%s

If you have any questions or need further information, you can contact us at %s.

Thank you for your attention and cooperation.

Sincerely,
SPMB Committee of %s`, reg.FullName, formattedDate, result, domain.HomeSchool, followUp, n.schoolPhone, domain.HomeSchool)

	return subject, body
}
