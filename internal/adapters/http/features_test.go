package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// scenarioState holds the last response of one scenario.
type scenarioState struct {
	baseURL string
	client  *http.Client
	status  int
	body    string
}

func (s *scenarioState) reset() {
	s.status = 0
	s.body = ""
}

func (s *scenarioState) theServiceIsRunning(ctx context.Context) error {
	if err := s.get(ctx, "/-/live"); err != nil {
		return fmt.Errorf("service is not running at %s: %w", s.baseURL, err)
	}

	if s.status != http.StatusOK {
		return fmt.Errorf("liveness returned %d", s.status)
	}

	return nil
}

func (s *scenarioState) iRequestGET(ctx context.Context, path string) error {
	return s.get(ctx, path)
}

func (s *scenarioState) theResponseStatusShouldBe(want int) error {
	if s.status != want {
		return fmt.Errorf("expected status %d, got %d. Body: %s", want, s.status, s.body)
	}

	return nil
}

func (s *scenarioState) theResponseShouldContain(text string) error {
	if !strings.Contains(s.body, text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, s.body)
	}

	return nil
}

func (s *scenarioState) get(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	s.status = resp.StatusCode
	s.body = string(body)

	return nil
}

func initializeScenario(baseURL string) func(*godog.ScenarioContext) {
	return func(sc *godog.ScenarioContext) {
		state := &scenarioState{
			baseURL: baseURL,
			client:  &http.Client{Timeout: 10 * time.Second},
		}

		sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
			state.reset()
			return ctx, nil
		})

		sc.Step(`^the service is running$`, state.theServiceIsRunning)
		sc.Step(`^I request GET "([^"]*)"$`, state.iRequestGET)
		sc.Step(`^the response status should be (\d+)$`, state.theResponseStatusShouldBe)
		sc.Step(`^the response should contain "((?:[^"\\]|\\.)*)"$`, func(text string) error {
			return state.theResponseShouldContain(strings.ReplaceAll(text, `\"`, `"`))
		})
	}
}

// TestFeatures runs the Gherkin scenarios under testdata/features against
// an in-process server backed by a fake Twitter API.
func TestFeatures(t *testing.T) {
	srv := httptest.NewServer(newTestEngine(t))
	t.Cleanup(srv.Close)

	suite := godog.TestSuite{
		Name:                "connections",
		ScenarioInitializer: initializeScenario(srv.URL),
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{"testdata/features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
			Strict:   true,
		},
	}

	if status := suite.Run(); status != 0 {
		t.Fatal(errors.New("feature scenarios failed"))
	}
}
