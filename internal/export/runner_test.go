package export

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/comptroller-cli/pkg/comptroller"
)

// fakeRegistry serves the search endpoint at / and detail records at /{id},
// mirroring the upstream URL scheme. Detail fetches are counted per ID.
type fakeRegistry struct {
	pages   map[string]string // page number ("" for un-paginated) -> body
	details map[string]string // taxpayer ID -> body
	fetched map[string]int
}

func (f *fakeRegistry) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimPrefix(r.URL.Path, "/"); id != "" {
			body, ok := f.details[id]
			if !ok {
				t.Errorf("unexpected detail fetch for %q", id)
				http.NotFound(w, r)
				return
			}
			f.fetched[id]++
			fmt.Fprint(w, body)
			return
		}
		body, ok := f.pages[r.URL.Query().Get("page")]
		if !ok {
			t.Errorf("unexpected search page %q", r.URL.Query().Get("page"))
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		pages:   map[string]string{},
		details: map[string]string{},
		fetched: map[string]int{},
	}
}

func runExport(t *testing.T, reg *fakeRegistry, r Runner) string {
	t.Helper()
	srv := httptest.NewServer(reg.handler(t))
	t.Cleanup(srv.Close)

	r.Client = comptroller.NewClient(
		comptroller.WithBaseURL(srv.URL),
		comptroller.WithMinDelay(0),
	)

	var buf strings.Builder
	require.NoError(t, r.Run(context.Background(), &buf))
	return buf.String()
}

func TestRunner_TwoPageExportWithZipFilter(t *testing.T) {
	reg := newFakeRegistry()
	reg.pages["1"] = `{
		"data":[{"taxpayerId":"111","mailingAddressZip":"78701"}],
		"pagination":{"page":1,"totalPages":2}
	}`
	reg.pages["2"] = `{
		"data":[{"taxpayerId":"222","mailingAddressZip":"75201"}],
		"pagination":{"page":2,"totalPages":2}
	}`
	reg.details["111"] = `{"data":{
		"businessName":"Acme LLC",
		"taxpayerId":"111",
		"sosFileNumber":"0800000001",
		"permitNumber":"P-1",
		"mailingAddressStreet":"1 Main",
		"mailingAddressCity":"Austin",
		"mailingAddressState":"TX",
		"mailingAddressZip":"78701"
	}}`

	out := runExport(t, reg, Runner{
		Query:     comptroller.Query{Name: "Acme"},
		ZipFilter: "78701",
		PageSize:  1,
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "business_name,address,permit_number,taxpayer_id,sos_file_number", lines[0])
	assert.Equal(t, `Acme LLC,"1 Main, Austin, TX, 78701",P-1,111,0800000001`, lines[1])

	// The mismatched row was filtered on its summary ZIP: its detail record
	// was never requested.
	assert.Equal(t, 1, reg.fetched["111"])
	assert.Zero(t, reg.fetched["222"])
}

func TestRunner_HeaderAlwaysPresent(t *testing.T) {
	reg := newFakeRegistry()
	reg.pages[""] = `{"data":[{"taxpayerId":"111","mailingAddressZip":"75201"}]}`

	out := runExport(t, reg, Runner{
		Query:     comptroller.Query{Name: "Acme"},
		ZipFilter: "78701",
	})

	assert.Equal(t, "business_name,address,permit_number,taxpayer_id,sos_file_number\n", out)
	assert.Empty(t, reg.fetched)
}

func TestRunner_SkipsRowsWithoutTaxpayerID(t *testing.T) {
	reg := newFakeRegistry()
	reg.pages[""] = `{"data":[{"name":"No ID"},{"taxpayerId":"111"}]}`
	reg.details["111"] = `{"data":{"businessName":"Acme"}}`

	out := runExport(t, reg, Runner{Query: comptroller.Query{Name: "Acme"}})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Acme")
}

func TestRunner_DetailZipPostFilter(t *testing.T) {
	reg := newFakeRegistry()
	// The summary row has no ZIP, so it survives the pre-filter; the detail
	// record's mismatched ZIP drops it.
	reg.pages[""] = `{"data":[{"taxpayerId":"111"},{"taxpayerId":"222"}]}`
	reg.details["111"] = `{"data":{"businessName":"Wrong Zip","mailingAddressZip":"75201"}}`
	reg.details["222"] = `{"data":{"businessName":"No Zip At All"}}`

	out := runExport(t, reg, Runner{
		Query:     comptroller.Query{Name: "Acme"},
		ZipFilter: "78701",
	})

	// A detail without any ZIP passes the post-filter.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "No Zip At All")
	assert.Equal(t, 1, reg.fetched["111"])
}

func TestRunner_ConfigurationError(t *testing.T) {
	r := Runner{Client: comptroller.NewClient(comptroller.WithMinDelay(0))}
	err := r.Run(context.Background(), &strings.Builder{})
	assert.ErrorIs(t, err, comptroller.ErrNoQuery)
}

func TestRunner_DetailErrorAbortsRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"data":[{"taxpayerId":"111"},{"taxpayerId":"222"}]}`)
	}))
	defer srv.Close()

	r := Runner{
		Client: comptroller.NewClient(
			comptroller.WithBaseURL(srv.URL),
			comptroller.WithMinDelay(0),
		),
		Query: comptroller.Query{Name: "Acme"},
	}

	var buf strings.Builder
	err := r.Run(context.Background(), &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	// No partial recovery: the second row is never reached.
	assert.NotContains(t, buf.String(), "222")
}
