package main

import (
    "flag"
    "log"
    "net/http"

    "github.com/ccastromar/greetgen/internal/mocks/chatapi"
)

var listenAndServe = http.ListenAndServe

func buildMux(scenario string) (*http.ServeMux, error) {
    srv := chatapi.NewServer("")
    if err := srv.SetScenario(scenario); err != nil {
        return nil, err
    }
    mux := http.NewServeMux()
    srv.RegisterHandlers(mux)
    return mux, nil
}

func main() {
    addr := flag.String("addr", ":9000", "address to listen on")
    scenario := flag.String("scenario", chatapi.ScenarioOK, "initial scenario (switch with POST /mock/scenario?name=...)")
    flag.Parse()

    mux, err := buildMux(*scenario)
    if err != nil {
        log.Fatalf("[MOCK LLM] %v", err)
    }
    log.Printf("[MOCK LLM] listening on %s scenario=%s", *addr, *scenario)
    if err := listenAndServe(*addr, mux); err != nil {
        log.Fatalf("[MOCK LLM] %v", err)
    }
}
