// Command bridge-demo runs a request-style scenario against a service provider
// and prints what each lifetime produced.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"

	"github.com/xraph/bridge"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	header = color.New(color.FgBlue, color.Bold).SprintFunc()
)

type Logger interface {
	Log(msg string)
}

type consoleLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *consoleLogger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

type RequestContext interface {
	RequestID() int64
}

type requestContext struct {
	id     int64
	logger Logger
}

func (r *requestContext) RequestID() int64 { return r.id }

// Dispose runs when the request scope ends.
func (r *requestContext) Dispose() error {
	r.logger.Log(fmt.Sprintf("request %d closed", r.id))
	return nil
}

type Widget interface {
	Serial() int64
}

type widget struct {
	serial int64
}

func (w *widget) Serial() int64 { return w.serial }

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	dump := flag.Bool("json", false, "print the registration table as JSON")
	noColor := flag.Bool("no-color", false, "disable coloured output")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	if err := run(*configPath, *dump); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
		os.Exit(1)
	}
}

func run(configPath string, dump bool) error {
	cfg := bridge.DefaultConfig()
	if configPath != "" {
		loaded, err := bridge.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	var requests, widgets atomic.Int64
	log := &consoleLogger{}

	services := bridge.NewServiceCollection()
	bridge.AddInstance[Logger](services, log)
	bridge.AddScoped[RequestContext](services, func(l Logger) *requestContext {
		return &requestContext{id: requests.Add(1), logger: l}
	})
	bridge.AddFactory[Widget](services, bridge.Transient, func(bridge.Provider) (Widget, error) {
		return &widget{serial: widgets.Add(1)}, nil
	})

	root, err := services.BuildServiceProvider(bridge.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer root.Close()

	fmt.Println(header("Scopes"))
	for range 2 {
		if err := serveRequest(root); err != nil {
			return err
		}
	}

	fmt.Println(header("Logger"))
	for _, line := range log.lines {
		fmt.Printf("  %s\n", line)
	}

	fmt.Println(header("Registrations"))
	if dump {
		data, err := root.DescribeJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, info := range root.Describe() {
		name := info.ServiceType
		if info.Key != "" {
			name += "[" + info.Key + "]"
		}
		line := fmt.Sprintf("  %-28s %-10s %-8s", name, info.Lifetime, info.Shape)
		if info.BuiltIn {
			fmt.Println(gray(line + " built-in"))
			continue
		}
		fmt.Println(line)
	}
	return nil
}

func serveRequest(root *bridge.ServiceProvider) error {
	scope, err := root.CreateScope()
	if err != nil {
		return err
	}
	defer scope.Dispose()

	p := scope.Provider()
	first, err := bridge.GetRequiredService[RequestContext](p)
	if err != nil {
		return err
	}
	second, err := bridge.GetRequiredService[RequestContext](p)
	if err != nil {
		return err
	}
	a, err := bridge.GetRequiredService[Widget](p)
	if err != nil {
		return err
	}
	b, err := bridge.GetRequiredService[Widget](p)
	if err != nil {
		return err
	}

	fmt.Printf("  scope %s (parent %s)\n", cyan(scope.ID()), gray(scope.Parent().ID()))
	fmt.Printf("    request context %d, stable within scope: %s\n", first.RequestID(), check(first == second))
	fmt.Printf("    widgets %d and %d, distinct: %s\n", a.Serial(), b.Serial(), check(a != b))
	return nil
}

func check(ok bool) string {
	if ok {
		return green("yes")
	}
	return red("no")
}
