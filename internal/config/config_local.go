//go:build !gcloud

package config

import "fmt"

// Validate allows running without NATS or FCM; publishing is then disabled and
// pushes are only logged.
func (c *Config) Validate() error {
	if c.FCM.SendBurst < 1 {
		return fmt.Errorf("FCM_SEND_BURST must be at least 1, got %d", c.FCM.SendBurst)
	}

	return nil
}
