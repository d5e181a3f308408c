package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"triforge-backend/infrastructure/config"
	"triforge-backend/infrastructure/di"
)

// handler carries the state built once per execution environment
type handler struct {
	proxy     *chiadapter.ChiLambdaV2
	logger    *zap.Logger
	bootedAt  time.Time
	coldStart bool
}

func main() {
	started := time.Now()
	log.Println("Lambda cold start initiated")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// The proxy adapter needs the concrete chi router
	mux, ok := container.Handler.(*chi.Mux)
	if !ok {
		log.Fatal("router is not a chi.Mux")
	}

	h := &handler{
		proxy:     chiadapter.NewV2(mux),
		logger:    container.Logger,
		bootedAt:  started,
		coldStart: true,
	}
	log.Printf("Lambda cold start completed in %v", time.Since(started))

	lambda.Start(h.invoke)
}

// invoke proxies one API Gateway V2 event through the router and stamps the
// monitoring headers on the way out
func (h *handler) invoke(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, err := h.proxy.ProxyWithContextV2(ctx, req)

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if h.coldStart {
		h.coldStart = false
		resp.Headers["X-Cold-Start"] = "true"
		resp.Headers["X-Cold-Start-Duration"] = time.Since(h.bootedAt).String()
	} else {
		resp.Headers["X-Cold-Start"] = "false"
	}
	if id := req.RequestContext.RequestID; id != "" {
		resp.Headers["X-Request-ID"] = id
	}

	if resp.StatusCode >= 500 && h.logger != nil {
		h.logger.Error("Lambda error response",
			zap.String("method", req.RequestContext.HTTP.Method),
			zap.String("path", req.RequestContext.HTTP.Path),
			zap.String("request_id", req.RequestContext.RequestID),
			zap.Int("status_code", resp.StatusCode),
		)
	}

	return resp, err
}
