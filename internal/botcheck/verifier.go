package botcheck

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/acidni/intake-service/internal/config"
)

// Verdict is the outcome of a bot-verification check. Verify never returns
// an error; a failed call surfaces as a non-pass verdict with a reason.
type Verdict struct {
	Pass   bool
	Score  float64
	Reason string
	// Errored marks a verdict produced by a network or parse failure rather
	// than a definitive rejection from the scoring service. Fail-open kinds
	// proceed past errored verdicts.
	Errored bool
}

// Verifier checks client tokens against the external scoring service.
type Verifier struct {
	cfg    config.BotCheckConfig
	client *http.Client
	logger *zap.Logger
}

// NewVerifier constructs a Verifier.
func NewVerifier(cfg config.BotCheckConfig, logger *zap.Logger) *Verifier {
	return &Verifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type verifyResponse struct {
	Success bool    `json:"success"`
	Score   float64 `json:"score"`
}

// Verify checks the client token. With no secret configured every request
// passes, so local and preview environments keep working without keys.
func (v *Verifier) Verify(ctx context.Context, token string) Verdict {
	if !v.cfg.Configured() {
		return Verdict{Pass: true, Reason: "verification not configured"}
	}

	form := url.Values{}
	form.Set("secret", v.cfg.SecretKey)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Verdict{Pass: false, Errored: true, Reason: "verification error"}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Warn("bot verification call failed", zap.Error(err))
		return Verdict{Pass: false, Errored: true, Reason: "verification error"}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		v.logger.Warn("bot verification read failed", zap.Error(err))
		return Verdict{Pass: false, Errored: true, Reason: "verification error"}
	}

	var result verifyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		v.logger.Warn("bot verification parse failed", zap.Error(err))
		return Verdict{Pass: false, Errored: true, Reason: "verification error"}
	}

	if result.Success && result.Score >= v.cfg.MinScore {
		return Verdict{Pass: true, Score: result.Score}
	}
	return Verdict{Pass: false, Score: result.Score, Reason: "verification failed"}
}
