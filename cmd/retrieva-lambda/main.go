// The retrieva-lambda binary answers questions behind API Gateway.
// Settings come from the environment only; clients are constructed once
// at cold start and reused across invocations.
package main

import (
	"context"
	"log"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driving/lambda"
	"github.com/custodia-labs/retrieva-cli/internal/core/services"
	"github.com/custodia-labs/retrieva-cli/internal/logger"
)

func main() {
	zlog := logger.New(false)
	defer zlog.Sync() //nolint:errcheck

	ctx := context.Background()

	settingsService := services.NewSettingsService(memory.NewConfigStore())
	settings, err := settingsService.Get()
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}

	clients, err := ai.Setup(ctx, settings)
	if err != nil {
		log.Fatalf("set up providers: %v", err)
	}

	retriever := services.NewRetriever(clients.Embedding, clients.Index, settings.Search.TopK, zlog)
	asker := services.NewAsker(retriever, clients.LLM, settings.LLM.MaxTokens, zlog)

	handler := lambda.NewHandler(asker, zlog)
	awslambda.Start(handler.Handle)
}
