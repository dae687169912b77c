//go:build gcloud

package config

import "errors"

// Validate enforces what a Cloud Run deployment cannot run without: a Pub/Sub
// project for lifecycle events and a Firebase project for push delivery.
func (c *Config) Validate() error {
	var errs []error

	if c.PubSub.GCloudProjectID == "" {
		errs = append(errs, errors.New("GCLOUD_PROJECT_ID is required for event publishing"))
	}

	if !c.FCM.Enabled() {
		errs = append(errs, errors.New("FIREBASE_PROJECT_ID or FIREBASE_CREDENTIALS_FILE is required for push delivery"))
	}

	return errors.Join(errs...)
}
