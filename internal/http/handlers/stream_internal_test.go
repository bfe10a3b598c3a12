package handlers

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balalaika/internal/domain"
)

func TestWriteEventFraming(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	require.NoError(t, writeEvent(w, "catalog", catalogEvent{Revision: 7, Loaded: true}))
	require.NoError(t, writeEvent(w, "session", sessionPayload(domain.Anonymous{})))
	require.NoError(t, writeEvent(w, "session", sessionPayload(domain.Authenticated{Profile: domain.User{Name: "Ana"}})))

	assert.Equal(t,
		"event: catalog\ndata: {\"revision\":7,\"loaded\":true}\n\n"+
			"event: session\ndata: {\"signedIn\":false}\n\n"+
			"event: session\ndata: {\"signedIn\":true,\"name\":\"Ana\"}\n\n",
		buf.String())
}

func TestWriteEventRejectsUnencodable(t *testing.T) {
	var buf bytes.Buffer
	err := writeEvent(bufio.NewWriter(&buf), "catalog", make(chan int))
	assert.ErrorContains(t, err, "sse: marshal")
	assert.Empty(t, buf.String())
}
