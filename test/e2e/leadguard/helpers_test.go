package leadguard_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/leadguard/pkg/leadsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Shared setup for leadguard end-to-end tests: the service image, its
 * backing Postgres and Redis containers, and common assertions.
 */

const (
	testImageName = "leadguard-test:latest"
	postgresImage = "postgres:16-alpine"
	redisImage    = "redis:7-alpine"

	adminUsername = "ops"
	adminPassword = "correct-horse-battery-staple"

	postgresUser     = "leadguard"
	postgresPassword = "leadguard"
	postgresDB       = "leadguard"
)

// TestMain builds the service image once for every test and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building leadguard Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up leadguard Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/leadguard/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run()
}

// relaxedLimits keeps the rate limiter out of the way of tests that make
// many rapid requests.
func relaxedLimits() map[string]string {
	return map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
		"RATELIMIT_LENIENT_REQUESTS":  "1000",
		"RATELIMIT_LENIENT_BURST":     "1000",
	}
}

type serviceContainer struct {
	testcontainers.Container
	baseURL string
}

// setupLeadguardContainer starts the service with the sqlite driver unless
// env overrides it. networks attaches the container to existing networks.
func setupLeadguardContainer(t *testing.T, env map[string]string, networks ...string) *serviceContainer {
	t.Helper()
	ctx := context.Background()

	merged := map[string]string{
		"ENV":        "test",
		"LOG_LEVEL":  "info",
		"LOG_FORMAT": "json",
	}
	for k, v := range relaxedLimits() {
		merged[k] = v
	}
	for k, v := range env {
		merged[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          merged,
		Networks:     networks,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return &serviceContainer{
		Container: container,
		baseURL:   fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
	}
}

// ctl runs leadguardctl inside the service container and returns its output.
func (c *serviceContainer) ctl(t *testing.T, args ...string) string {
	t.Helper()

	code, reader, err := c.Exec(t.Context(), append([]string{"leadguardctl"}, args...), tcexec.Multiplexed())
	require.NoError(t, err)

	out, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Zero(t, code, "leadguardctl %s: %s", strings.Join(args, " "), out)
	return string(out)
}

// createAdmin provisions the standard admin and logs in.
func (c *serviceContainer) createAdmin(t *testing.T) *leadsdk.Session {
	t.Helper()

	c.ctl(t, "admin", "create", adminUsername, "--password", adminPassword)

	session, err := leadsdk.NewClient(c.baseURL).Login(t.Context(), adminUsername, adminPassword, "")
	require.NoError(t, err)
	return session
}

type backingContainer struct {
	testcontainers.Container
	// hostAddr is reachable from the test process, internalAddr from
	// containers on the same network.
	hostAddr     string
	internalAddr string
}

func startBacking(t *testing.T, req testcontainers.ContainerRequest, port, alias string) *backingContainer {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, port)
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return &backingContainer{
		Container:    container,
		hostAddr:     fmt.Sprintf("%s:%s", host, mappedPort.Port()),
		internalAddr: fmt.Sprintf("%s:%s", alias, strings.TrimSuffix(port, "/tcp")),
	}
}

// setupPostgres starts Postgres, optionally on a network under the alias
// "postgres".
func setupPostgres(t *testing.T, network string) *backingContainer {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	if network != "" {
		req.Networks = []string{network}
		req.NetworkAliases = map[string][]string{network: {"postgres"}}
	}
	return startBacking(t, req, "5432/tcp", "postgres")
}

func postgresURL(addr string) string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", postgresUser, postgresPassword, addr, postgresDB)
}

// setupRedis starts Redis, optionally on a network under the alias "redis".
func setupRedis(t *testing.T, network string) *backingContainer {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(30 * time.Second),
	}
	if network != "" {
		req.Networks = []string{network}
		req.NetworkAliases = map[string][]string{network: {"redis"}}
	}
	return startBacking(t, req, "6379/tcp", "redis")
}

// leadFields is a clean windscreen repair lead.
func leadFields(email string) map[string]any {
	return map[string]any{
		"name":        "Dana Smith",
		"email":       email,
		"serviceType": "chip_repair",
		"notes":       "Small chip on the passenger side, about the size of a dime.",
	}
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *leadsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertTokenRejected checks a submission failed with the generic token
// message and nothing more specific.
func assertTokenRejected(t *testing.T, err error) {
	t.Helper()

	var apiErr *leadsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.StatusCode)
	require.Equal(t, leadsdk.GenericTokenError, apiErr.Description)
}
