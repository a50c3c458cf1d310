package main

import (
    "context"
    "errors"
    "io"
    "testing"
)

type fakeRunner struct {
    ran bool
    err error
}

func (f *fakeRunner) Run(ctx context.Context) error {
    f.ran = true
    return f.err
}

// stub swaps the constructor and fatalf for the duration of the test.
func stub(t *testing.T, ctor func(...string) (runner, error)) *bool {
    t.Helper()
    oldCtor, oldFatalf := appCtor, fatalf
    t.Cleanup(func() { appCtor = oldCtor; fatalf = oldFatalf })

    appCtor = ctor
    calledFatal := false
    fatalf = func(format string, v ...any) { calledFatal = true }
    return &calledFatal
}

func TestRun_Success(t *testing.T) {
    fr := &fakeRunner{}
    var gotFiles []string
    calledFatal := stub(t, func(files ...string) (runner, error) {
        gotFiles = files
        return fr, nil
    })

    run(context.Background(), options{envFile: "prod.env"})

    if !fr.ran { t.Fatalf("expected runner.Run to be called") }
    if *calledFatal { t.Fatalf("did not expect fatalf to be called") }
    if len(gotFiles) != 1 || gotFiles[0] != "prod.env" {
        t.Fatalf("expected env file to be forwarded, got %v", gotFiles)
    }
}

func TestRun_NoEnvFileUsesDefault(t *testing.T) {
    var gotFiles []string
    stub(t, func(files ...string) (runner, error) {
        gotFiles = files
        return &fakeRunner{}, nil
    })

    run(context.Background(), options{})

    if len(gotFiles) != 0 { t.Fatalf("expected no explicit env files, got %v", gotFiles) }
}

func TestRun_FatalOnCtorError(t *testing.T) {
    calledFatal := stub(t, func(...string) (runner, error) { return nil, errors.New("boom") })

    run(context.Background(), options{})

    if !*calledFatal { t.Fatalf("expected fatalf to be called on ctor error") }
}

func TestRun_FatalOnRunError(t *testing.T) {
    fr := &fakeRunner{err: errors.New("oops")}
    calledFatal := stub(t, func(...string) (runner, error) { return fr, nil })

    run(context.Background(), options{})

    if !*calledFatal { t.Fatalf("expected fatalf to be called on run error") }
}

func TestParseFlags(t *testing.T) {
    o, err := parseFlags([]string{"-port", "8088", "-env-file", "x.env", "-version"}, io.Discard)
    if err != nil { t.Fatalf("parseFlags: %v", err) }
    if o.port != "8088" || o.envFile != "x.env" || !o.showVersion {
        t.Fatalf("unexpected options: %+v", o)
    }

    o, err = parseFlags(nil, io.Discard)
    if err != nil { t.Fatalf("parseFlags: %v", err) }
    if o != (options{}) { t.Fatalf("expected zero options, got %+v", o) }

    if _, err := parseFlags([]string{"-nope"}, io.Discard); err == nil {
        t.Fatalf("expected error for unknown flag")
    }
    if _, err := parseFlags([]string{"extra"}, io.Discard); err == nil {
        t.Fatalf("expected error for positional argument")
    }
}
