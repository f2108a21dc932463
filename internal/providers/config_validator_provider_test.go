package providers

import (
	"kickoff/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		Api: structures.ApiConfig{
			BaseURL:      "http://localhost:8000",
			RetryWaitMin: 1,
			RetryWaitMax: 5,
		},
		Storage: structures.StorageConfig{
			Backend: "file",
			Dir:     "/tmp/kickoff",
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyBaseURL(t *testing.T) {
	c := validConfig()
	c.Api.BaseURL = ""
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_InvalidBaseURL(t *testing.T) {
	c := validConfig()
	c.Api.BaseURL = "not a url"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_UnknownBackend(t *testing.T) {
	c := validConfig()
	c.Storage.Backend = "indexeddb"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_UnknownSessionBackend(t *testing.T) {
	c := validConfig()
	c.Session.Backend = "cookie"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_KeyringSessionBackend(t *testing.T) {
	c := validConfig()
	c.Session.Backend = "keyring"
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_RetryWaitOrder(t *testing.T) {
	c := validConfig()
	c.Api.RetryWaitMin = 10
	c.Api.RetryWaitMax = 1
	assert.Error(t, NewCnfValidator(c).Validate())
}
