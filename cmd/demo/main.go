// Command demo runs a standalone counter page against the host adapter,
// exercising the full component/vdom/transport/page stack end to end.
// Grounded on the teacher's example mains (e.g.
// example/collaborative_working_enhanced/main.go): echo.New() plus the
// standard Logger/Recover middleware, a GET route per page, and
// e.Logger.Fatal(e.Start(addr)) at the bottom.
package main

import (
	"context"
	"fmt"

	"github.com/go-lively/lively/component"
	"github.com/go-lively/lively/components"
	"github.com/go-lively/lively/host"
	"github.com/go-lively/lively/observability"
	"github.com/go-lively/lively/page"
	"github.com/go-lively/lively/transport"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// counterPage bundles the page root with the widgets a click handler
// needs to touch, so the closures below don't need to walk the tree.
type counterPage struct {
	*page.Page
	count int
	total *components.Label
}

func newCounterPage() (*counterPage, error) {
	pg, err := page.NewPage("Lively Counter Demo", "en")
	if err != nil {
		return nil, err
	}
	cp := &counterPage{Page: pg}

	cp.total, err = components.NewLabel("Count: 0")
	if err != nil {
		return nil, err
	}

	incr, err := components.NewButton("+1", cp.onIncrement)
	if err != nil {
		return nil, err
	}
	decr, err := components.NewButton("-1", cp.onDecrement)
	if err != nil {
		return nil, err
	}

	nameInput, err := components.NewInput(components.InputOptions{
		Type:        "text",
		Name:        "name",
		Placeholder: "Your name",
	})
	if err != nil {
		return nil, err
	}
	greeting, err := components.NewLabel("")
	if err != nil {
		return nil, err
	}
	if err := nameInput.OnInput(func(ctx context.Context, c component.Component, value string) (interface{}, error) {
		return nil, greeting.SetInnerText(fmt.Sprintf("Hello, %s!", value))
	}); err != nil {
		return nil, err
	}

	form, err := components.NewForm(components.FormOptions{Action: "#"}, nameInput, greeting)
	if err != nil {
		return nil, err
	}

	if err := cp.Body.ChildrenList().Extend(cp.total, incr, decr, form); err != nil {
		return nil, err
	}
	return cp, nil
}

func (cp *counterPage) onIncrement(ctx context.Context, c component.Component, value string) (interface{}, error) {
	cp.count++
	return nil, cp.total.SetInnerText(fmt.Sprintf("Count: %d", cp.count))
}

func (cp *counterPage) onDecrement(ctx context.Context, c component.Component, value string) (interface{}, error) {
	cp.count--
	return nil, cp.total.SetInnerText(fmt.Sprintf("Count: %d", cp.count))
}

func main() {
	metrics := observability.NewMetrics("lively_demo")
	logger := observability.New("demo")

	adapter := host.NewAdapter(nil, transport.Options{
		Logger:  logger,
		Metrics: metrics,
		Debug:   true,
	})
	adapter.Debug = true
	metrics.MustRegister(prometheus.DefaultRegisterer)

	adapter.Echo.Use(middleware.Logger())
	adapter.Echo.Use(middleware.Recover())
	adapter.Echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	adapter.RegisterPage("/", "/ws", func(c echo.Context) (component.Component, bool, error) {
		cp, err := newCounterPage()
		if err != nil {
			return nil, false, err
		}
		return cp.Page, false, nil
	})

	adapter.Echo.Logger.Fatal(adapter.Echo.Start(":8080"))
}
