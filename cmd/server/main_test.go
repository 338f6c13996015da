package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"gorm.io/gorm"

	"sekisan/internal/config"
	"sekisan/internal/server"
)

type stubServer struct {
	startErr       error
	stopErr        error
	blockUntilStop bool

	startCalled bool
	stopCalled  bool

	startGate   chan struct{}
	startNotify chan struct{}
}

func newStubServer(startErr, stopErr error, block bool) *stubServer {
	s := &stubServer{
		startErr:       startErr,
		stopErr:        stopErr,
		blockUntilStop: block,
		startNotify:    make(chan struct{}),
	}
	if block {
		s.startGate = make(chan struct{})
	}
	return s
}

func (s *stubServer) Start() error {
	s.startCalled = true
	close(s.startNotify)
	if s.blockUntilStop {
		<-s.startGate
	}
	return s.startErr
}

func (s *stubServer) Stop() error {
	s.stopCalled = true
	if s.blockUntilStop {
		close(s.startGate)
	}
	return s.stopErr
}

func withRestoredSeams(t *testing.T) {
	t.Helper()
	originalLoadConfig := loadConfigFunc
	originalSetLogLevel := setLogLevelFunc
	originalConfigure := configureDatabase
	originalNewServer := newServerFunc
	originalSubscribe := subscribeShutdownSig
	t.Cleanup(func() {
		loadConfigFunc = originalLoadConfig
		setLogLevelFunc = originalSetLogLevel
		configureDatabase = originalConfigure
		newServerFunc = originalNewServer
		subscribeShutdownSig = originalSubscribe
	})
}

func testConfig() config.Config {
	return config.Config{
		Server:   config.ServerConfig{Addr: ":8080"},
		Database: config.DatabaseConfig{URL: "postgres://example"},
		Session: config.SessionConfig{
			Lifetime:     time.Hour,
			CookieName:   "test",
			CookieSecure: true,
		},
		LogLevel: "debug",
	}
}

func TestRunStopsServerOnShutdownSignal(t *testing.T) {
	withRestoredSeams(t)

	loadConfigFunc = func() (config.Config, error) { return testConfig(), nil }
	setLogLevelFunc = func(string) error { return nil }
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) { return &gorm.DB{}, nil }

	serverStub := newStubServer(http.ErrServerClosed, nil, true)
	newServerFunc = func(server.Config) (serverLifecycle, error) {
		return serverStub, nil
	}

	shutdownCh := make(chan os.Signal, 1)
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		return shutdownCh, func() {}
	}

	go func() {
		<-serverStub.startNotify
		shutdownCh <- syscall.SIGTERM
	}()

	code := run(context.Background())
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !serverStub.startCalled || !serverStub.stopCalled {
		t.Fatal("expected server start and stop to be invoked")
	}
}

func TestRunReturnsErrorWhenServerStartFails(t *testing.T) {
	withRestoredSeams(t)

	loadConfigFunc = func() (config.Config, error) { return testConfig(), nil }
	setLogLevelFunc = func(string) error { return nil }
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) { return &gorm.DB{}, nil }

	serverStub := newStubServer(errors.New("listener failure"), nil, false)
	newServerFunc = func(server.Config) (serverLifecycle, error) {
		return serverStub, nil
	}

	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		return make(chan os.Signal), func() {}
	}

	code := run(context.Background())
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if serverStub.stopCalled {
		t.Fatal("server stop should not be called on start error")
	}
}

func TestRunHandlesDatabaseConfigurationError(t *testing.T) {
	withRestoredSeams(t)

	loadConfigFunc = func() (config.Config, error) { return testConfig(), nil }
	setLogLevelFunc = func(string) error { return nil }
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) {
		return nil, errors.New("db connection refused")
	}
	newServerFunc = func(server.Config) (serverLifecycle, error) {
		t.Fatal("server should not be built without a database")
		return nil, nil
	}

	code := run(context.Background())
	if code != 1 {
		t.Fatalf("expected exit code 1 on database configuration failure, got %d", code)
	}
}

func TestRunReturnsErrorWhenLogLevelInvalid(t *testing.T) {
	withRestoredSeams(t)

	cfg := testConfig()
	cfg.LogLevel = "invalid"
	loadConfigFunc = func() (config.Config, error) { return cfg, nil }
	setLogLevelFunc = func(string) error { return errors.New("invalid level") }
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) {
		t.Fatal("database should not be configured with an invalid log level")
		return nil, nil
	}

	code := run(context.Background())
	if code != 1 {
		t.Fatalf("expected exit code 1 for invalid log level, got %d", code)
	}
}

func TestRunReturnsErrorWhenConfigInvalid(t *testing.T) {
	withRestoredSeams(t)

	loadConfigFunc = func() (config.Config, error) {
		return config.Config{}, errors.New("bad environment")
	}
	setLogLevelFunc = func(string) error {
		t.Fatal("log level should not be set when configuration fails")
		return nil
	}

	code := run(context.Background())
	if code != 1 {
		t.Fatalf("expected exit code 1 for invalid configuration, got %d", code)
	}
}
