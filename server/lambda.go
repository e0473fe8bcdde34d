package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// ServeLambda runs a Lambda function URL invocation through the same gin
// routes as the HTTP server. Binary responses (PNG, XLSX) are base64
// encoded.
func (s *Server) ServeLambda(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return events.LambdaFunctionURLResponse{StatusCode: http.StatusBadRequest, Body: "invalid base64 body"}, nil
		}
		body = string(decoded)
	}

	target := event.RawPath
	if target == "" {
		target = "/"
	}
	if event.RawQueryString != "" {
		target += "?" + event.RawQueryString
	}
	method := event.RequestContext.HTTP.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(body))
	if err != nil {
		return events.LambdaFunctionURLResponse{}, errors.Wrap(err, "build request")
	}
	for k, v := range event.Headers {
		req.Header.Set(k, v)
	}
	req.RemoteAddr = event.RequestContext.HTTP.SourceIP

	w := newBufferedResponse()
	s.Handler().ServeHTTP(w, req)

	resp := events.LambdaFunctionURLResponse{
		StatusCode: w.status,
		Headers:    make(map[string]string, len(w.header)),
	}
	for k := range w.header {
		resp.Headers[k] = w.header.Get(k)
	}
	if isText(w.header.Get("Content-Type")) {
		resp.Body = w.body.String()
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(w.body.Bytes())
		resp.IsBase64Encoded = true
	}
	return resp, nil
}

func isText(contentType string) bool {
	return contentType == "" ||
		strings.HasPrefix(contentType, "text/") ||
		strings.HasPrefix(contentType, "application/json")
}

// bufferedResponse collects a handler's response in memory.
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (w *bufferedResponse) Header() http.Header { return w.header }

func (w *bufferedResponse) Write(b []byte) (int, error) { return w.body.Write(b) }

func (w *bufferedResponse) WriteHeader(status int) { w.status = status }
