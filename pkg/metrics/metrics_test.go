package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/employees/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/employees/"+id, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/employees/:id", "404"))
	require.Equal(t, 2.0, got)
}

func TestImportRow(t *testing.T) {
	m := New()
	m.ImportRow(OutcomeInserted)
	m.ImportRow(OutcomeInserted)
	m.ImportRow(OutcomeDuplicate)

	require.Equal(t, 2.0, testutil.ToFloat64(m.importRows.WithLabelValues(OutcomeInserted)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.importRows.WithLabelValues(OutcomeDuplicate)))
	require.Equal(t, 0.0, testutil.ToFloat64(m.importRows.WithLabelValues(OutcomeInvalid)))
}
