package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SendResult collapses every transport failure into a reportable outcome.
// Send never panics and never surfaces a raw error to the dispatch loop.
type SendResult struct {
	OK     bool
	Detail string
}

// GatewayClient talks to the external messaging gateway over HTTP. One send
// attempt per call; retry policy, if any, belongs to the caller.
type GatewayClient struct {
	sendURL string
	baseURL string
	client  *http.Client
}

func NewGatewayClient(sendURL, baseURL string, timeout time.Duration) *GatewayClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GatewayClient{
		sendURL: sendURL,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	Numero   string `json:"numero"`
	Mensagem string `json:"mensagem"`
}

func (c *GatewayClient) Send(ctx context.Context, number, message string) SendResult {
	if number == "" {
		return SendResult{Detail: "empty phone number"}
	}
	if message == "" {
		return SendResult{Detail: "empty message"}
	}

	reqBody, err := json.Marshal(sendRequest{Numero: number, Mensagem: message})
	if err != nil {
		return SendResult{Detail: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sendURL, bytes.NewReader(reqBody))
	if err != nil {
		return SendResult{Detail: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return SendResult{Detail: fmt.Sprintf("gateway unreachable: %v", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SendResult{Detail: fmt.Sprintf("unexpected status code: %d body=%q", resp.StatusCode, string(body))}
	}

	return SendResult{OK: true, Detail: fmt.Sprintf("message sent to %s", number)}
}

// ResetConnection asks the gateway to drop its messaging session so a new
// QR code gets issued.
func (c *GatewayClient) ResetConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reset-whatsapp", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d body=%q", resp.StatusCode, string(body))
	}
	return nil
}

type qrResponse struct {
	QR string `json:"qr"`
}

// QRCode fetches the current pairing QR code and returns the decoded PNG
// bytes. The gateway wraps it in a base64 data URL.
func (c *GatewayClient) QRCode(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get-qr", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d body=%q", resp.StatusCode, string(body))
	}

	var qr qrResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w body=%q", err, string(body))
	}
	if qr.QR == "" {
		return nil, fmt.Errorf("no QR code available yet")
	}

	payload := qr.QR
	if i := strings.IndexByte(payload, ','); i >= 0 {
		payload = payload[i+1:]
	}

	png, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode QR image: %w", err)
	}
	return png, nil
}
