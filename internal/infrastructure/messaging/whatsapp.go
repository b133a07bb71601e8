package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wa-otp-auth/internal/config"
)

// WhatsAppSender delivers passcodes through the SendZen WhatsApp template
// API. The code is injected into both the template body and its copy-code
// button.
type WhatsAppSender struct {
	url          string
	apiKey       string
	from         string
	templateName string
	langCode     string
	httpClient   *http.Client
}

func NewWhatsAppSender(cfg *config.Config) *WhatsAppSender {
	return &WhatsAppSender{
		url:          cfg.SendZenAPIURL,
		apiKey:       cfg.SendZenAPIKey,
		from:         cfg.WhatsAppFrom,
		templateName: cfg.WhatsAppTemplateName,
		langCode:     cfg.WhatsAppLangCode,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	SubType    string              `json:"sub_type,omitempty"`
	Index      *int                `json:"index,omitempty"`
	Parameters []templateParameter `json:"parameters"`
}

type templatePayload struct {
	Name       string              `json:"name"`
	LangCode   string              `json:"lang_code"`
	Components []templateComponent `json:"components"`
}

type messagePayload struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Type     string          `json:"type"`
	Template templatePayload `json:"template"`
}

// apiResponse is the body-level status envelope. A transport-level 200 can
// still carry a non-200 statuscode, which counts as a delivery failure.
type apiResponse struct {
	StatusCode int             `json:"statuscode"`
	Response   string          `json:"response"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func (s *WhatsAppSender) Send(ctx context.Context, phoneNumber, code string) error {
	buttonIndex := 0
	payload := messagePayload{
		From: s.from,
		To:   phoneNumber,
		Type: "template",
		Template: templatePayload{
			Name:     s.templateName,
			LangCode: s.langCode,
			Components: []templateComponent{
				{
					Type:       "body",
					Parameters: []templateParameter{{Type: "text", Text: code}},
				},
				{
					Type:       "button",
					SubType:    "url",
					Index:      &buttonIndex,
					Parameters: []templateParameter{{Type: "text", Text: code}},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	res, err := s.httpClient.Do(req)
	if err != nil {
		return &SendError{Kind: KindNetwork, Response: "NETWORK_ERROR", Data: err.Error()}
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return &SendError{Kind: KindNetwork, StatusCode: res.StatusCode, Response: "READ_ERROR", Data: err.Error()}
	}

	if res.StatusCode != http.StatusOK {
		kind := KindAPI
		if res.StatusCode == http.StatusTooManyRequests {
			kind = KindRateLimited
		}
		var apiErr apiResponse
		if json.Unmarshal(resBody, &apiErr) == nil && apiErr.Response != "" {
			return &SendError{Kind: kind, StatusCode: res.StatusCode, Response: apiErr.Response, Data: string(apiErr.Data)}
		}
		return &SendError{Kind: kind, StatusCode: res.StatusCode, Response: "PARSE_ERROR", Data: string(resBody)}
	}

	var result apiResponse
	if err := json.Unmarshal(resBody, &result); err != nil {
		return &SendError{Kind: KindAPI, StatusCode: res.StatusCode, Response: "PARSE_ERROR", Data: string(resBody)}
	}
	if result.StatusCode != 0 && result.StatusCode != http.StatusOK {
		return &SendError{Kind: KindAPI, StatusCode: result.StatusCode, Response: result.Response, Data: string(result.Data)}
	}
	return nil
}
