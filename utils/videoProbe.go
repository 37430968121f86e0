package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"courseplatform/apperr"
	"courseplatform/logger"

	"github.com/go-resty/resty/v2"
)

var errPrivateHost = errors.New("host resolves to a non-public address")

// allowPrivateHosts lifts the public address check. Tests probe local servers.
var allowPrivateHosts bool

// publicOnly refuses connections to loopback, private, link-local and other
// non-public addresses. It runs on every dial, redirects included, after the
// host name was resolved.
func publicOnly(network, address string, _ syscall.RawConn) error {
	if allowPrivateHosts {
		return nil
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublicIP(ip) {
		return fmt.Errorf("%s: %w", host, errPrivateHost)
	}
	return nil
}

func isPublicIP(ip net.IP) bool {
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast())
}

// ProbeVideoURL checks that a video URL answers with a success status. It
// tries HEAD first and falls back to GET for hosts that refuse HEAD. Hosts
// inside the server's own network are never contacted.
func ProbeVideoURL(ctx context.Context, url string, timeout time.Duration) error {
	dialer := &net.Dialer{Timeout: timeout, Control: publicOnly}
	client := resty.New().
		SetTransport(&http.Transport{DialContext: dialer.DialContext}).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	resp, err := client.R().SetContext(ctx).Head(url)
	if err == nil && (resp.StatusCode() == http.StatusMethodNotAllowed || resp.StatusCode() == http.StatusNotImplemented) {
		resp, err = client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)
		if resp != nil && resp.RawBody() != nil {
			resp.RawBody().Close()
		}
	}
	if errors.Is(err, errPrivateHost) {
		logger.Log.Warn("video probe refused", "url", url, "error", err)
		return apperr.Field("url", "Video URL must point to a public host!")
	}
	if err != nil {
		logger.Log.Warn("video probe failed", "url", url, "error", err)
		return apperr.Field("url", "Video URL is not reachable!")
	}
	if resp.StatusCode() >= 400 {
		logger.Log.Warn("video probe rejected", "url", url, "status", resp.StatusCode())
		return apperr.Field("url", fmt.Sprintf("Video URL answered with status %d!", resp.StatusCode()))
	}
	return nil
}
