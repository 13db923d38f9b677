package email

import (
	"context"
	"fmt"
	"net/smtp"
)

type BorrowConfirmationData struct {
	Email     string
	Name      string
	BookTitle string
	DueDate   string
}

type CardApprovedData struct {
	Email      string
	Name       string
	CardNumber string
}

type OverdueReminderData struct {
	Email     string
	Name      string
	BookTitle string
	DueDate   string
}

// EmailService sends library notifications. Failures are logged by callers
// and never roll back the write they accompany.
type EmailService interface {
	SendBorrowConfirmation(ctx context.Context, data BorrowConfirmationData) error
	SendCardApproved(ctx context.Context, data CardApprovedData) error
	SendOverdueReminder(ctx context.Context, data OverdueReminderData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPEmailService(host, port, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: host + ":" + port,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, to, subject, body))
	return smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg)
}

func (s *smtpEmailService) SendBorrowConfirmation(ctx context.Context, data BorrowConfirmationData) error {
	subject := "GCMN Library - Book Borrowed"
	body := fmt.Sprintf(`Dear %s,

You have borrowed "%s" from the GCMN College Library.

Please return it by %s.

GCMN College Library`, data.Name, data.BookTitle, data.DueDate)
	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendCardApproved(ctx context.Context, data CardApprovedData) error {
	subject := "GCMN Library - Card Application Approved"
	body := fmt.Sprintf(`Dear %s,

Your library card application has been approved.

Your card number is %s. You can use it to log in and borrow books.

GCMN College Library`, data.Name, data.CardNumber)
	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendOverdueReminder(ctx context.Context, data OverdueReminderData) error {
	subject := "GCMN Library - Overdue Book Reminder"
	body := fmt.Sprintf(`Dear %s,

The book "%s" was due on %s and has not been returned yet.

Please return it to the library as soon as possible.

GCMN College Library`, data.Name, data.BookTitle, data.DueDate)
	return s.send(data.Email, subject, body)
}
