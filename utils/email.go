package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendInvitationEmail notifies the invitee by email. Callers treat this as
// best-effort: a delivery failure never blocks the invitation itself.
func SendInvitationEmail(toEmail, inviterName, budgetName string) error {
	apiKey := os.Getenv("EMAIL_API_KEY")
	if apiKey == "" {
		LogDebug("EMAIL_API_KEY not set, skipping invitation email to %s", MaskEmail(toEmail))
		return nil
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 0; font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background-color: #f3f4f6;">
	<div style="max-width: 600px; margin: 40px auto; background: #ffffff; border-radius: 12px; padding: 40px;">
		<h2 style="margin: 0 0 20px 0; color: #1f2937;">You have been invited</h2>
		<p style="margin: 0 0 20px 0; color: #4b5563; font-size: 16px; line-height: 1.6;">
			%s invited you to collaborate on the budget <b>%s</b>.
			Sign in to accept or decline the invitation.
		</p>
		<a href="%s" style="display: inline-block; padding: 12px 24px; background: #4f46e5; color: #ffffff; border-radius: 8px; text-decoration: none;">
			Open Budget App
		</a>
	</div>
</body>
</html>`, inviterName, budgetName, frontendURL)

	payload := emailRequest{
		From:    getEnv("EMAIL_FROM", "Budget App <noreply@budgetapp.local>"),
		To:      []string{toEmail},
		Subject: fmt.Sprintf("%s invited you to a shared budget", inviterName),
		HTML:    htmlBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email API returned status %d", resp.StatusCode)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
