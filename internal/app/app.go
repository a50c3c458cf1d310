package app

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ccastromar/greetgen/internal/clipboard"
	"github.com/ccastromar/greetgen/internal/config"
	"github.com/ccastromar/greetgen/internal/greeting"
	"github.com/ccastromar/greetgen/internal/llm"
	"github.com/ccastromar/greetgen/internal/logx"
	"github.com/ccastromar/greetgen/internal/runtime"
	"github.com/ccastromar/greetgen/internal/ui"
)

const version = "v1.0.0"

func Version() string { return version }

type App struct {
	env    *config.EnvVars
	prompt *config.Prompt
	llm    llm.ChatClient
	ui     *ui.Store
	http   *HTTPServer
}

// New loads the environment (optionally from the given dotenv files) and builds the app.
func New(envFiles ...string) (*App, error) {
	env, err := config.LoadEnv(envFiles...)
	if err != nil {
		return nil, err
	}
	return NewWithEnv(env)
}

// NewWithEnv builds the app from an already loaded environment.
func NewWithEnv(env *config.EnvVars) (*App, error) {
	logx.SetLevel(env.LogLevel)

	prompt, err := config.LoadPrompt(env.PromptFile)
	if err != nil {
		return nil, err
	}
	logx.Info("Config", "prompt loaded model=%s", prompt.Model)

	llmClient := llm.NewOpenAIClient(env.APIURL, env.APIKey, env.LLMTimeout)
	generator := greeting.NewGenerator(llmClient, prompt)
	store := ui.NewStore(generator, clipboard.New(env.Clipboard), env.PageTTL)

	rt := runtime.New(version, prompt.Model, llmClient)

	port := httpPort
	if port == "" {
		port = strconv.Itoa(env.Port)
	}
	router := NewRouter(store, rt, env.RateLimitPerMinute)
	httpServer := NewHTTPServer(":"+port, router, env.LLMTimeout+10*time.Second)

	return &App{
		env:    env,
		prompt: prompt,
		llm:    llmClient,
		ui:     store,
		http:   httpServer,
	}, nil
}

// Handler exposes the router so it can be served without binding a port.
func (a *App) Handler() http.Handler {
	return a.http.srv.Handler
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	// Lanzar HTTP server
	g.Go(func() error {
		return a.http.Start(gctx)
	})

	// comprobación inicial del LLM, no bloqueante
	g.Go(func() error {
		if err := a.llm.Ping(gctx); err != nil && gctx.Err() == nil {
			logx.Warn("App", "llm not reachable at startup: %v", err)
		}
		return nil
	})

	logx.Info("App", "greetgen %s started (llm=%s)", version, a.env.APIURL)

	return g.Wait()
}
