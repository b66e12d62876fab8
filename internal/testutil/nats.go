//go:build integration

package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mentari-platform/mentari/internal/config"
	inats "github.com/mentari-platform/mentari/internal/nats"
)

// NATS starts a JetStream-enabled NATS container and returns a client with
// the mentari streams created.
func NATS(t *testing.T) *inats.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2-alpine",
			ExposedPorts: []string{"4222/tcp"},
			Cmd:          []string{"--jetstream", "--store_dir", "/data"},
			WaitingFor:   wait.ForLog("Server is ready").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting nats container: %v", err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "4222")

	client, err := inats.NewClient(ctx, config.NATSConfig{
		URL:     fmt.Sprintf("nats://%s:%s", host, port.Port()),
		Enabled: true,
	})
	if err != nil {
		t.Fatalf("connecting to nats: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}
