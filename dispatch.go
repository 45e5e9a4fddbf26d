// Copyright 2021 The requisitor Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package requisitor

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gogama/requisitor/handler"
	"github.com/gogama/requisitor/request"
	"github.com/gogama/requisitor/response"
	"github.com/gogama/requisitor/transient"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gogama/requisitor"

// drainLimit caps how much of a discarded response body is read so the
// connection can close cleanly.
const drainLimit = 64 << 10

func (s *Session) dispatch(p *request.Plan, chain *handler.Chain, timeout time.Duration) (*response.Response, error) {
	ctx, span := s.tracer().Start(p.Context(), "requisitor.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", p.Method),
			attribute.String("url.full", p.URL.String()),
		))
	defer span.End()

	e := &request.Execution{
		Plan:    p.WithContext(ctx),
		Timeout: timeout,
		Logger:  s.logger(),
	}
	execute(e, chain)

	span.SetAttributes(attribute.Int("requisitor.redirects", e.Redirects))
	if e.Response != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", e.Response.StatusCode))
	}
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
		e.Logger.Debug().
			Err(e.Err).
			Str("method", p.Method).
			Str("url", p.URL.String()).
			Stringer("transience", transient.Categorize(e.Err)).
			Dur("duration", e.Duration()).
			Msg("request failed")
		return nil, e.Err
	}

	e.Logger.Debug().
		Str("method", p.Method).
		Str("url", p.URL.String()).
		Int("status", e.Response.StatusCode).
		Int("redirects", e.Redirects).
		Dur("duration", e.Duration()).
		Msg("request done")
	return response.New(e.Response), nil
}

// execute runs the dispatch described by e to completion. On return
// exactly one of e.Response and e.Err is set.
func execute(e *request.Execution, chain *handler.Chain) {
	if e.Err = chain.Run(handler.BeforeExecutionStart, e); e.Err != nil {
		return
	}

	e.Start = time.Now()
	e.Transport = newTransport(e.Timeout)
	defer e.Transport.CloseIdleConnections()
	if e.Err = chain.Run(handler.BeforeConnect, e); e.Err == nil {
		e.Err = sendLoop(e, chain)
	}
	e.End = time.Now()

	err := chain.Run(handler.AfterExecutionEnd, e)
	if e.Err == nil && err != nil {
		e.Err = err
		closeBody(e.Response)
	}
	if e.Err != nil {
		e.Response = nil
	}
}

func sendLoop(e *request.Execution, chain *handler.Chain) error {
	req := e.Plan.ToRequest()
	for {
		e.Reset(req)
		if err := chain.Run(handler.BeforeSend, e); err != nil {
			return err
		}
		otel.GetTextMapPropagator().Inject(e.Request.Context(), propagation.HeaderCarrier(e.Request.Header))

		resp, err := e.Transport.RoundTrip(e.Request)
		if err != nil {
			return urlErrorWrap(e.Request, err)
		}
		e.Response = resp
		if err = chain.Run(handler.AfterReceive, e); err != nil {
			closeBody(resp)
			return err
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		err = chain.Run(handler.Intercept, e)
		if err == nil && !e.Resolved() {
			err = chain.Run(handler.Fallback, e)
		}
		if err != nil {
			// An HTTPError owns the response body.
			var httpErr *response.HTTPError
			if !errors.As(err, &httpErr) {
				closeBody(resp)
			}
			return err
		}
		if next := e.Next(); next != nil {
			drainBody(resp)
			req = next
			continue
		}
		return nil
	}
}

func newTransport(timeout time.Duration) *http.Transport {
	dialer := &net.Dialer{Timeout: timeout}
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return handler.WithDeadline(conn, timeout), nil
		},
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		DisableCompression:    true,
		DisableKeepAlives:     true,
	}
}

func drainBody(r *http.Response) {
	_, _ = io.CopyN(io.Discard, r.Body, drainLimit)
	closeBody(r)
}

func closeBody(r *http.Response) {
	if r != nil && r.Body != nil {
		_ = r.Body.Close()
	}
}

func (s *Session) logger() zerolog.Logger {
	if s.Logger == nil {
		return zerolog.Nop()
	}
	return *s.Logger
}

func (s *Session) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return otel.Tracer(tracerName)
}
