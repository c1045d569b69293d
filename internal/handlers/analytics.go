package handlers

import "github.com/alsafar-partners/legal-web/internal/config"

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
	GTMContainerID   string // e.g. GTM-XXXXXXX
	Debug            bool
}

// AnalyticsFrom copies the analytics section of the loaded configuration.
func AnalyticsFrom(cfg config.AnalyticsConfig) Analytics {
	return Analytics{
		GA4MeasurementID: cfg.GA4MeasurementID,
		GTMContainerID:   cfg.GTMContainerID,
		Debug:            cfg.Debug,
	}
}

// Enabled reports whether any tag should be emitted.
func (a Analytics) Enabled() bool { return a.GA4MeasurementID != "" || a.GTMContainerID != "" }
