package utils

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courseplatform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowLocalHosts(t *testing.T) {
	t.Helper()
	allowPrivateHosts = true
	t.Cleanup(func() { allowPrivateHosts = false })
}

func TestProbeVideoURLAcceptsReachableURL(t *testing.T) {
	allowLocalHosts(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, ProbeVideoURL(context.Background(), srv.URL, time.Second))
}

func TestProbeVideoURLFallsBackToGet(t *testing.T) {
	allowLocalHosts(t)
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_, _ = w.Write([]byte("video bytes"))
	}))
	defer srv.Close()

	require.NoError(t, ProbeVideoURL(context.Background(), srv.URL, time.Second))
	assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
}

func TestProbeVideoURLRejectsErrorStatus(t *testing.T) {
	allowLocalHosts(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := ProbeVideoURL(context.Background(), srv.URL, time.Second)
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Video URL answered with status 404!", verr.Fields["url"])
}

func TestProbeVideoURLUnreachable(t *testing.T) {
	allowLocalHosts(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := ProbeVideoURL(context.Background(), url, time.Second)
	assert.True(t, errors.Is(err, apperr.ErrValidationFailed))
}

func TestProbeVideoURLRefusesPrivateHosts(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := ProbeVideoURL(context.Background(), srv.URL, time.Second)
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Video URL must point to a public host!", verr.Fields["url"])
	assert.Zero(t, hits)
}

func TestIsPublicIP(t *testing.T) {
	for _, addr := range []string{"127.0.0.1", "10.1.2.3", "172.16.0.1", "192.168.1.1", "169.254.169.254", "0.0.0.0", "::1", "fe80::1", "fc00::1"} {
		assert.False(t, isPublicIP(net.ParseIP(addr)), addr)
	}
	for _, addr := range []string{"93.184.216.34", "2606:2800:220:1::1"} {
		assert.True(t, isPublicIP(net.ParseIP(addr)), addr)
	}
}
