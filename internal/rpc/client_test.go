package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastClient(retries int) *Client {
	return New(Options{Timeout: 2 * time.Second, Retries: retries, RetryWait: time.Millisecond})
}

func TestCallDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "condenser_api.get_accounts", req.Method)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","result":{"name":"alice"},"id":1}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	err := fastClient(0).Call(context.Background(), srv.URL, "condenser_api.get_accounts", []interface{}{[]string{"alice"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "alice", out.Name)
}

func TestCallReturnsRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32601,"message":"method not found"},"id":1}`))
	}))
	defer srv.Close()

	err := fastClient(0).Call(context.Background(), srv.URL, "nope", nil, nil)
	require.Error(t, err)

	var rpcErr *Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32601, rpcErr.Code)
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestCallRetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","result":true,"id":1}`))
	}))
	defer srv.Close()

	var ok bool
	require.NoError(t, fastClient(3).Call(context.Background(), srv.URL, "ping", nil, &ok))
	assert.True(t, ok)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestCallGivesUpAfterRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := fastClient(2).Call(context.Background(), srv.URL, "ping", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestCallDoesNotRetryRPCErrorOnServerError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"result":null,"error":{"code":-6,"message":"Insufficient funds"},"id":1}`))
	}))
	defer srv.Close()

	err := fastClient(3).Call(context.Background(), srv.URL, "sendtoaddress", nil, nil)
	require.Error(t, err)

	var rpcErr *Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -6, rpcErr.Code)
	assert.False(t, errors.Is(err, ErrTransport))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCallBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rpcuser" || pass != "rpcpass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"result":1,"error":null,"id":1}`))
	}))
	defer srv.Close()

	var n int
	err := fastClient(0).Call(context.Background(), srv.URL, "getblockcount", nil, &n, WithBasicAuth("rpcuser", "rpcpass"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	err = fastClient(0).Call(context.Background(), srv.URL, "getblockcount", nil, &n)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chain/get_info" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"head_block_num":42}`))
	}))
	defer srv.Close()

	var info struct {
		HeadBlockNum int64 `json:"head_block_num"`
	}
	require.NoError(t, fastClient(0).PostJSON(context.Background(), srv.URL+"/v1/chain/get_info", struct{}{}, &info))
	assert.Equal(t, int64(42), info.HeadBlockNum)

	err := fastClient(0).PostJSON(context.Background(), srv.URL+"/missing", struct{}{}, nil)
	assert.ErrorIs(t, err, ErrTransport)
}
