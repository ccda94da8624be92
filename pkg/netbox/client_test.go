package netbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/clock/testclock"

	"github.com/netherd-io/netherd/pkg/util"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(srv.URL, "tok123")
	if err != nil {
		t.Fatalf("New(%q) error: %v", srv.URL, err)
	}
	return c
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		token string
	}{
		{name: "empty url", url: "", token: "tok"},
		{name: "no scheme", url: "netbox.example.net", token: "tok"},
		{name: "wrong scheme", url: "ftp://netbox.example.net", token: "tok"},
		{name: "empty token", url: "https://netbox.example.net", token: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.url, tt.token)
			if !errors.Is(err, util.ErrInvalidConfig) {
				t.Errorf("New(%q, %q) error = %v, want ErrInvalidConfig", tt.url, tt.token, err)
			}
		})
	}

	if _, err := New("https://netbox.example.net/", "tok"); err != nil {
		t.Errorf("New() with valid config error: %v", err)
	}
}

func TestGetDeviceByName(t *testing.T) {
	var gotAuth, gotAccept, gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotName = r.URL.Query().Get("name")
		fmt.Fprint(w, `{"count":1,"next":null,"results":[
			{"id":42,"name":"access-sw1","serial":"FOC1049X1AB",
			 "site":{"id":3,"name":"Lab 1","slug":"lab1"},
			 "role":{"id":5,"name":"access","slug":"access"},
			 "status":{"value":"active","label":"Active"}}]}`)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	dev, err := c.GetDeviceByName(context.Background(), "access-sw1")
	if err != nil {
		t.Fatalf("GetDeviceByName() error: %v", err)
	}
	if gotAuth != "Token tok123" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Token tok123")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept header = %q", gotAccept)
	}
	if gotName != "access-sw1" {
		t.Errorf("name query param = %q", gotName)
	}
	if dev == nil || dev.ID != 42 || dev.Serial != "FOC1049X1AB" {
		t.Fatalf("device = %+v, want id 42 serial FOC1049X1AB", dev)
	}
	if dev.Site == nil || dev.Site.Slug != "lab1" {
		t.Errorf("device site = %+v, want slug lab1", dev.Site)
	}
	if dev.Status.Val() != "active" {
		t.Errorf("device status = %q, want active", dev.Status.Val())
	}
}

func TestGetDeviceByNameMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"count":0,"next":null,"results":[]}`)
	}))
	defer srv.Close()

	dev, err := testClient(t, srv).GetDeviceByName(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("GetDeviceByName() error: %v", err)
	}
	if dev != nil {
		t.Errorf("device = %+v, want nil for a missing name", dev)
	}
}

func TestListFollowsPagination(t *testing.T) {
	var offsets []string
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offsets = append(offsets, r.URL.Query().Get("offset"))
		if r.URL.Query().Get("offset") == "" {
			fmt.Fprintf(w, `{"count":3,"next":"%s/api/dcim/devices/?limit=2&offset=2","results":[
				{"id":1,"name":"sw1"},{"id":2,"name":"sw2"}]}`, srv.URL)
			return
		}
		fmt.Fprint(w, `{"count":3,"next":null,"results":[{"id":3,"name":"sw3"}]}`)
	}))
	defer srv.Close()

	devs, err := testClient(t, srv).ListDevices(context.Background(), DeviceFilter{})
	if err != nil {
		t.Fatalf("ListDevices() error: %v", err)
	}
	if len(devs) != 3 {
		t.Fatalf("ListDevices() returned %d devices, want 3 across two pages", len(devs))
	}
	if devs[2].Name != "sw3" {
		t.Errorf("last device = %q, want sw3", devs[2].Name)
	}
	if len(offsets) != 2 || offsets[1] != "2" {
		t.Errorf("request offsets = %v, want second request at offset 2", offsets)
	}
}

func TestAPIErrorCategories(t *testing.T) {
	tests := []struct {
		status int
		want   util.Category
	}{
		{status: http.StatusUnauthorized, want: util.CategoryAuth},
		{status: http.StatusForbidden, want: util.CategoryAuth},
		{status: http.StatusNotFound, want: util.CategorySemantic},
		{status: http.StatusUnprocessableEntity, want: util.CategorySemantic},
		{status: http.StatusTooManyRequests, want: util.CategoryTransient},
		{status: http.StatusBadGateway, want: util.CategoryTransient},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := testClient(t, srv)
			c.attempts = 1
			_, err := c.ListDevices(context.Background(), DeviceFilter{})
			if err == nil {
				t.Fatalf("ListDevices() on %d succeeded, want error", tt.status)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.Status != tt.status {
				t.Fatalf("error = %v, want APIError with status %d", err, tt.status)
			}
			if got := util.CategoryOf(err); got != tt.want {
				t.Errorf("CategoryOf(%d) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestRetryOnServerFault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"count":0,"next":null,"results":[]}`)
	}))
	defer srv.Close()

	clk := testclock.NewClock(time.Now())
	c := testClient(t, srv)
	c.clk = clk

	done := make(chan error, 1)
	go func() {
		_, err := c.ListDevices(context.Background(), DeviceFilter{})
		done <- err
	}()

	// Two failures park the retry loop on its backoff timer twice.
	for i := 0; i < 2; i++ {
		if err := clk.WaitAdvance(time.Minute, 5*time.Second, 1); err != nil {
			t.Fatalf("advancing backoff sleep %d: %v", i+1, err)
		}
	}

	if err := <-done; err != nil {
		t.Fatalf("ListDevices() error = %v, want success on third attempt", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
}

func TestAuthFailureNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail":"Invalid token"}`)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).ListDevices(context.Background(), DeviceFilter{})
	if got := util.CategoryOf(err); got != util.CategoryAuth {
		t.Fatalf("CategoryOf() = %q (err %v), want auth", got, err)
	}
	if !strings.Contains(err.Error(), "Invalid token") {
		t.Errorf("error %q does not carry the server detail", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server saw %d calls, want 1 for a rejected token", got)
	}
}

func TestCreateDeviceEncodesWrite(t *testing.T) {
	var gotMethod, gotPath, gotType string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":7,"name":"access-sw1"}`)
	}))
	defer srv.Close()

	dev, err := testClient(t, srv).CreateDevice(context.Background(), DeviceWrite{
		Name:       "access-sw1",
		DeviceType: 4,
		Role:       5,
		Site:       3,
		Serial:     "FOC1049X1AB",
		Status:     "active",
	})
	if err != nil {
		t.Fatalf("CreateDevice() error: %v", err)
	}
	if dev.ID != 7 {
		t.Errorf("created device id = %d, want 7", dev.ID)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/dcim/devices/" {
		t.Errorf("request = %s %s, want POST /api/dcim/devices/", gotMethod, gotPath)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if gotBody["device_type"] != float64(4) || gotBody["site"] != float64(3) {
		t.Errorf("body = %v, want device_type 4 and site 3", gotBody)
	}
	if _, present := gotBody["platform"]; present {
		t.Errorf("body carries zero platform, want it omitted")
	}
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		fmt.Fprint(w, `{"id":42,"name":"access-sw1","serial":"NEW123"}`)
	}))
	defer srv.Close()

	dev, err := testClient(t, srv).UpdateDevice(context.Background(), 42, map[string]any{"serial": "NEW123"})
	if err != nil {
		t.Fatalf("UpdateDevice() error: %v", err)
	}
	if dev.Serial != "NEW123" {
		t.Errorf("updated serial = %q, want NEW123", dev.Serial)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/dcim/devices/42/" {
		t.Errorf("request = %s %s, want PATCH /api/dcim/devices/42/", gotMethod, gotPath)
	}
	if len(gotBody) != 1 {
		t.Errorf("patch body = %v, want only the serial field", gotBody)
	}
}

func TestDeleteNoContent(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := testClient(t, srv).DeleteInterface(context.Background(), 9); err != nil {
		t.Fatalf("DeleteInterface() error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/dcim/interfaces/9/" {
		t.Errorf("request = %s %s, want DELETE /api/dcim/interfaces/9/", gotMethod, gotPath)
	}
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"count":0,"next":null,"results":[]}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testClient(t, srv).ListDevices(ctx, DeviceFilter{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ListDevices() error = %v, want context.Canceled", err)
	}
}

func TestDeviceFilterValues(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		fmt.Fprint(w, `{"count":0,"next":null,"results":[]}`)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).ListDevices(context.Background(), DeviceFilter{Site: "lab1", Role: "access"})
	if err != nil {
		t.Fatalf("ListDevices() error: %v", err)
	}
	if !strings.Contains(got, "site=lab1") || !strings.Contains(got, "role=access") {
		t.Errorf("query = %q, want site and role filters", got)
	}
}
