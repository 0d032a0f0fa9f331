package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_MatchesRegisteredTools(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	server := newTestServer(t, &Ports{Records: &mockRecordService{}})
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	listed, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	registered := make([]string, 0, len(listed.Tools))
	for _, tool := range listed.Tools {
		registered = append(registered, tool.Name)
	}

	var catalogued []string
	var resources []Offering
	for _, o := range Catalog() {
		switch o.Kind {
		case "tool":
			catalogued = append(catalogued, o.Name)
		case "resource":
			resources = append(resources, o)
		}
	}

	assert.ElementsMatch(t, registered, catalogued)
	require.Len(t, resources, 2)
	assert.Equal(t, "legis://status", resources[0].URI)
	assert.Equal(t, "legis://bills/{billId}/text", resources[1].URI)
	assert.Equal(t, "text/markdown", resources[1].MIMEType)
}
