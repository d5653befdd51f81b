package msads

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

const (
	submitReportPath = "/Reporting/v13/GenerateReport/Submit"
	pollReportPath   = "/Reporting/v13/GenerateReport/Poll"

	maxPollBackoff = 30 * time.Second
)

var ErrReportNotReady = eris.New("msads: report not ready after all poll attempts")

var conversionReportColumns = []string{
	"TimePeriod",
	"AccountName",
	"CampaignName",
	"Goal",
	"Conversions",
	"Revenue",
}

// SubmitConversionReport requests a daily conversion report for [from, to] and returns its id.
func (c *Client) SubmitConversionReport(ctx context.Context, from, to time.Time) (string, error) {
	if !c.Configured() {
		return "", eris.New("msads: not configured")
	}
	if to.Before(from) {
		return "", eris.Errorf("msads: report range ends (%s) before it starts (%s)", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	token, err := c.Authenticate(ctx)
	if err != nil {
		return "", err
	}

	payload := submitReportRequest{ReportRequest: reportRequest{
		Type:        "ConversionPerformanceReportRequest",
		Format:      "Csv",
		ReportName:  "Oxyllium conversions",
		Aggregation: "Daily",
		Columns:     conversionReportColumns,
		Scope:       reportScope{AccountIds: []string{c.cfg.AccountID}},
		Time: reportTime{
			CustomDateRangeStart: toReportDate(from),
			CustomDateRangeEnd:   toReportDate(to),
		},
	}}

	var resp submitReportResponse
	if err := c.post(ctx, token, c.cfg.ReportingBaseURL+submitReportPath, payload, &resp); err != nil {
		c.failed("submit_report")
		return "", err
	}
	if resp.ReportRequestId == "" {
		c.failed("submit_report")
		return "", eris.New("msads: submit returned no report id")
	}
	return resp.ReportRequestId, nil
}

// PollReport blocks until the report succeeds, fails, runs out of attempts or
// hits the hard timeout. The wait between attempts doubles from ReportPollInterval.
func (c *Client) PollReport(ctx context.Context, reportID string) (*ReportStatus, error) {
	attempts := c.cfg.ReportPollAttempts
	if attempts <= 0 {
		attempts = 1
	}
	timeout := c.cfg.ReportTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < attempts; attempt++ {
		var resp pollReportResponse
		if err := c.post(ctx, token, c.cfg.ReportingBaseURL+pollReportPath, pollReportRequest{ReportRequestId: reportID}, &resp); err != nil {
			c.failed("poll_report")
			return nil, err
		}

		status := resp.ReportRequestStatus
		switch status.Status {
		case ReportSuccess:
			return &status, nil
		case ReportError:
			c.failed("poll_report")
			return &status, eris.Errorf("msads: report %s failed", reportID)
		}

		c.log.Debug().Str("report", reportID).Int("attempt", attempt+1).Str("status", status.Status).Msg("msads: report pending")

		if attempt == attempts-1 {
			break
		}

		timer := time.NewTimer(pollBackoff(attempt, c.cfg.ReportPollInterval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, eris.Wrap(ctx.Err(), "msads: report polling stopped")
		case <-timer.C:
		}
	}

	return nil, ErrReportNotReady
}

func pollBackoff(attempt int, initial time.Duration) time.Duration {
	if initial <= 0 {
		initial = time.Second
	}
	d := initial
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= maxPollBackoff {
			return maxPollBackoff
		}
	}
	return d
}

func toReportDate(t time.Time) reportDate {
	return reportDate{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}
}
