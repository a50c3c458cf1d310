package main

import (
    "context"
    "flag"
    "fmt"
    "io"
    "log"
    "os"
    "os/signal"
    "syscall"

    "github.com/ccastromar/greetgen/internal/app"
)

// runner is the minimal interface our app must satisfy for running.
type runner interface{ Run(context.Context) error }

// appCtor is a constructor indirection to enable testing without launching the real app.
var appCtor = func(envFiles ...string) (runner, error) { return app.New(envFiles...) }

// fatalf indirection allows testing fatal paths without exiting the test process.
var fatalf = log.Fatalf

type options struct {
    port        string
    envFile     string
    showVersion bool
}

func parseFlags(args []string, out io.Writer) (options, error) {
    var o options
    fs := flag.NewFlagSet("greetgen", flag.ContinueOnError)
    fs.SetOutput(out)
    fs.StringVar(&o.port, "port", "", "HTTP port to listen on (overrides PORT)")
    fs.StringVar(&o.envFile, "env-file", "", "dotenv file to load instead of ./.env")
    fs.BoolVar(&o.showVersion, "version", false, "print the version and exit")
    if err := fs.Parse(args); err != nil {
        return o, err
    }
    if fs.NArg() > 0 {
        return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
    }
    return o, nil
}

func run(ctx context.Context, o options) {
    app.SetHTTPPort(o.port)

    var files []string
    if o.envFile != "" {
        files = append(files, o.envFile)
    }
    a, err := appCtor(files...)
    if err != nil {
        fatalf("error initializing app: %v", err)
        return
    }
    if err := a.Run(ctx); err != nil {
        fatalf("error running app: %v", err)
        return
    }
}

func main() {
    o, err := parseFlags(os.Args[1:], os.Stderr)
    if err != nil {
        os.Exit(2)
    }
    if o.showVersion {
        fmt.Println("greetgen", app.Version())
        return
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    run(ctx, o)
}
