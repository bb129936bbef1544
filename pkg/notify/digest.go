// Package notify mails each user a digest of the items that need attention.
package notify

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"time"

	"go.uber.org/zap"

	"xianshiji/entities"
	"xianshiji/internal/utils/logger"
	"xianshiji/internal/utils/mailing"
	"xianshiji/pkg/inventory"
)

const digestSubject = "鲜食记 · 今日库存提醒"

type (
	AlertSource interface {
		GetFoodAlerts(ctx context.Context, userID uint) (inventory.Alerts, error)
	}

	Recipients interface {
		GetUsersWithEmail(ctx context.Context) ([]*entities.User, error)
	}

	Digest struct {
		alerts     AlertSource
		recipients Recipients
		sender     mailing.Sender
		appURL     string
	}
)

var digestTemplate = template.Must(template.New("digest").Parse(`<p>{{.Nickname}}，你好：</p>
{{range .Sections}}<h3>{{.Title}}（{{len .Items}}）</h3>
<ul>{{range .Items}}<li>{{.Name}} · {{.Quantity}}{{.DisplayUnit}} · 到期 {{.ExpiryDate}}</li>{{end}}</ul>
{{end}}{{if .AppURL}}<p><a href="{{.AppURL}}">打开鲜食记</a></p>{{end}}`))

func NewDigest(alerts AlertSource, recipients Recipients, sender mailing.Sender, appURL string) *Digest {
	return &Digest{alerts: alerts, recipients: recipients, sender: sender, appURL: appURL}
}

// RenderDigest returns the mail body for one user. Users whose alerts are
// empty get no mail, reported as ok=false.
func RenderDigest(nickname, appURL string, alerts inventory.Alerts) (string, bool, error) {
	if alerts.Empty() {
		return "", false, nil
	}
	var buf bytes.Buffer
	err := digestTemplate.Execute(&buf, struct {
		Nickname string
		AppURL   string
		Sections []inventory.Section
	}{nickname, appURL, alerts.Sections()})
	if err != nil {
		return "", false, err
	}
	return buf.String(), true, nil
}

// RunOnce sends one digest round and reports how many mails went out.
// A failure for one user is logged and does not stop the round.
func (d *Digest) RunOnce(ctx context.Context) (int, error) {
	users, err := d.recipients.GetUsersWithEmail(ctx)
	if err != nil {
		return 0, err
	}

	log := logger.Get()
	sent := 0
	var errs []error
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if user.Email == nil || *user.Email == "" {
			continue
		}

		alerts, err := d.alerts.GetFoodAlerts(ctx, user.ID)
		if err != nil {
			log.Warn("digest: load alerts", zap.Uint("user_id", user.ID), zap.Error(err))
			errs = append(errs, err)
			continue
		}

		body, ok, err := RenderDigest(user.Nickname, d.appURL, alerts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}

		if err := d.sender.Send(*user.Email, digestSubject, body); err != nil {
			log.Warn("digest: send mail", zap.Uint("user_id", user.ID), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		sent++
	}

	log.Info("digest round finished", zap.Int("recipients", len(users)), zap.Int("sent", sent))
	return sent, errors.Join(errs...)
}

// Start runs a round every interval until ctx is cancelled.
func (d *Digest) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Get().Error("digest round failed", zap.Error(err))
			}
		}
	}
}
