package middleware

import (
	"strings"

	"yatube/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware starts a server span per request, continuing any incoming W3C trace.
// Requests whose path starts with one of skipPrefixes are not traced.
func TracingMiddleware(skipPrefixes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, p := range skipPrefixes {
			if strings.HasPrefix(c.Path(), p) {
				return c.Next()
			}
		}

		carrier := propagation.MapCarrier{}
		c.Request().Header.VisitAll(func(k, v []byte) {
			carrier[strings.ToLower(string(k))] = string(v)
		})
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), carrier)

		ctx, span := observability.Tracer.Start(ctx, c.Method(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(c.Method()),
				semconv.URLPath(c.Path()),
				semconv.ClientAddress(c.IP()),
				semconv.UserAgentOriginal(c.Get(fiber.HeaderUserAgent)),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		c.Set("X-Trace-ID", traceID)
		c.SetUserContext(ctx)

		err := c.Next()

		// The route pattern is only known once routing has run.
		span.SetName(c.Method() + " " + c.Route().Path)
		span.SetAttributes(
			semconv.HTTPRoute(c.Route().Path),
			semconv.HTTPResponseStatusCode(c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok {
			span.SetAttributes(attribute.String("request.id", rid))
		}
		if uid, ok := c.Locals("userID").(uint); ok {
			span.SetAttributes(attribute.Int64("yatube.user_id", int64(uid)))
		}
		if hit := c.GetRespHeader("X-Cache"); hit != "" {
			span.SetAttributes(attribute.String("yatube.page_cache", hit))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return err
	}
}
