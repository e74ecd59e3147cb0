package di

import (
	"context"

	"cryptobuddy/internal/feature/chat/nlp"
	chatusecase "cryptobuddy/internal/feature/chat/usecase"
	kbusecase "cryptobuddy/internal/feature/knowledge/usecase"
	infradb "cryptobuddy/internal/platform/db"
)

// App bundles the components shared by the shell, the one-shot command and the HTTP server.
type App struct {
	KnowledgeBase *kbusecase.KnowledgeBase
	Dispatcher    *chatusecase.Dispatcher

	closeFn func()
}

// Close releases external connections.
func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// NewApp wires the knowledge base, the market client and the dispatcher from the environment.
func NewApp(ctx context.Context) (*App, error) {
	kb, err := NewKnowledgeBase(ctx, infradb.LoadConfig())
	if err != nil {
		return nil, err
	}
	market, closeFn := NewMarket(ctx)
	d := chatusecase.NewDispatcher(kb, market, nlp.NewClassifier(nil))
	return &App{KnowledgeBase: kb, Dispatcher: d, closeFn: closeFn}, nil
}
