package services

import (
	"fmt"

	"spendtrack/internal/utils"
)

type SMSService interface {
	SendOTP(mobile, code string) error
}

type smsService struct {
	client *utils.Client
}

func NewSMSService(client *utils.Client) SMSService {
	return &smsService{client: client}
}

func (s *smsService) SendOTP(mobile, code string) error {
	text := fmt.Sprintf("spendtrack verification code: %s", code)
	if _, err := s.client.SendSMS(mobile, text); err != nil {
		return fmt.Errorf("mobizon error: %w", err)
	}
	return nil
}
