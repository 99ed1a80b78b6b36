package config

import "go.uber.org/zap"

// NewLogger returns a JSON production logger, or a console development logger outside production.
func NewLogger(s Settings) (*zap.Logger, error) {
	if s.Production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
