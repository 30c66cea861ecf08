// Package tiendanubetest provides an in-memory store API served over
// httptest for exercising the remote client and the reconciler end to end.
package tiendanubetest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tiendapocket/nubesync/pkg/catalogs"
	"github.com/tiendapocket/nubesync/pkg/constants"
)

// StoreID is the store every fake serves.
const StoreID = "424242"

// Call is one request received by the fake.
type Call struct {
	Method string
	Path   string
	Body   string
}

type fault struct {
	status int
	body   string
	times  int
}

type variant struct {
	ID        int64
	ProductID int64
	SKU       string
	Price     *float64
	Cost      *float64
	Stock     *int
	Barcode   string
	Values    []catalogs.Localized
}

type product struct {
	ID               int64
	Name             catalogs.Localized
	Published        bool
	RequiresShipping bool
	Attributes       []catalogs.Localized
	Variants         []*variant
}

// Store is a fake products API. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]*product
	calls    []Call
	faults   map[string]*fault

	quotaRemaining int
	quotaResetMS   int
	omitLink       bool

	server *httptest.Server
}

// NewStore starts a fake store API, stopped when the test ends.
func NewStore(t testing.TB) *Store {
	t.Helper()
	s := &Store{
		nextID:         1000,
		products:       make(map[int64]*product),
		faults:         make(map[string]*fault),
		quotaRemaining: 40,
	}
	s.server = httptest.NewServer(s.routes())
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the API root; the client appends the store ID.
func (s *Store) URL() string {
	return s.server.URL
}

// ProductsPath is the path of the products collection.
func ProductsPath() string {
	return "/" + StoreID + "/products"
}

// SetQuota sets the rate-limit headers sent with every response.
func (s *Store) SetQuota(remaining, resetMS int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotaRemaining = remaining
	s.quotaResetMS = resetMS
}

// OmitLinkHeader stops the list endpoint from advertising further pages.
func (s *Store) OmitLinkHeader() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitLink = true
}

// Fail makes the next times requests to method and path answer with status
// and body instead of being served.
func (s *Store) Fail(method, path string, status int, body string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = &fault{status: status, body: body, times: times}
}

// Seed adds a product and returns its ID. Variant IDs are assigned in order.
func (s *Store) Seed(p catalogs.Product) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := &product{
		ID:               s.id(),
		Name:             p.Name,
		Published:        p.Published,
		RequiresShipping: p.RequiresShipping,
	}
	for _, a := range p.Attributes {
		stored.Attributes = append(stored.Attributes, catalogs.NewLocalized(a))
	}
	for _, v := range p.Variants {
		stock := v.Stock
		stored.Variants = append(stored.Variants, &variant{
			ID:        s.id(),
			ProductID: stored.ID,
			SKU:       v.SKU,
			Price:     v.Price,
			Cost:      v.Cost,
			Stock:     &stock,
			Barcode:   v.Barcode,
			Values:    v.Values,
		})
	}
	s.products[stored.ID] = stored
	return stored.ID
}

// Snapshot returns the current catalog in ID order.
func (s *Store) Snapshot() []catalogs.RemoteProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalogs.RemoteProduct, 0, len(s.products))
	for _, p := range s.sorted() {
		rp := catalogs.RemoteProduct{
			ID:               p.ID,
			Name:             p.Name,
			Published:        p.Published,
			VariantsResolved: true,
		}
		for _, a := range p.Attributes {
			rp.Attributes = append(rp.Attributes, a.Es())
		}
		for _, v := range p.Variants {
			stock := 0
			if v.Stock != nil {
				stock = *v.Stock
			}
			rp.Variants = append(rp.Variants, catalogs.RemoteVariant{
				ID:        v.ID,
				ProductID: p.ID,
				Variant: catalogs.Variant{
					SKU: v.SKU, Price: v.Price, Cost: v.Cost, Stock: stock, Barcode: v.Barcode, Values: v.Values,
				},
			})
		}
		out = append(out, rp)
	}
	return out
}

// Calls returns every request received so far.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Mutations returns every non-GET request received so far.
func (s *Store) Mutations() []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets recorded requests.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) sorted() []*product {
	out := make([]*product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/{store}/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Post("/", s.createProduct)
		r.Put("/{id}", s.updateProduct)
		r.Delete("/{id}", s.deleteProduct)
		r.Get("/{id}/variants", s.listVariants)
		r.Post("/{id}/variants", s.createVariant)
		r.Put("/{id}/variants/{variant}", s.updateVariant)
	})
	return r
}

// record logs the call, writes quota headers and serves injected faults.
func (s *Store) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		path := strings.TrimRight(r.URL.Path, "/")

		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: path, Body: string(body)})
		w.Header().Set(constants.HeaderRateLimitRemaining, strconv.Itoa(s.quotaRemaining))
		w.Header().Set(constants.HeaderRateLimitReset, strconv.Itoa(s.quotaResetMS))
		f := s.faults[r.Method+" "+path]
		if f != nil && f.times > 0 {
			f.times--
		} else {
			f = nil
		}
		s.mu.Unlock()

		if f != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, map[string]any{
		"code":        status,
		"message":     http.StatusText(status),
		"description": description,
	})
}

func (s *Store) lookup(w http.ResponseWriter, r *http.Request) (*product, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	p, ok := s.products[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Product with such id does not exist")
		return nil, false
	}
	return p, true
}

func (s *Store) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	page, perPage = max(page, 1), max(perPage, 1)

	all := s.sorted()
	start := (page - 1) * perPage
	if start >= len(all) && page > 1 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Last page is %d", (len(all)+perPage-1)/perPage))
		return
	}
	end := min(start+perPage, len(all))

	out := make([]productJSON, 0, end-start)
	for _, p := range all[start:end] {
		out = append(out, toJSON(p))
	}
	if end < len(all) && !s.omitLink {
		w.Header().Set("Link", fmt.Sprintf(`<%s?page=%d&per_page=%d>; rel="next"`, r.URL.Path, page+1, perPage))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Store) listVariants(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toJSON(p).Variants)
}

type variantBody struct {
	SKU     *string              `json:"sku"`
	Price   *float64             `json:"price"`
	Cost    *float64             `json:"cost"`
	Stock   *int                 `json:"stock"`
	Barcode *string              `json:"barcode"`
	Values  []catalogs.Localized `json:"values"`
}

type productBody struct {
	Name             catalogs.Localized   `json:"name"`
	Published        *bool                `json:"published"`
	RequiresShipping *bool                `json:"requires_shipping"`
	Attributes       []catalogs.Localized `json:"attributes"`
	Variants         []variantBody        `json:"variants"`
}

func (s *Store) createProduct(w http.ResponseWriter, r *http.Request) {
	var body productBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	for i, vb := range body.Variants {
		if vb.Stock != nil && *vb.Stock < 0 {
			writeJSON(w, http.StatusUnprocessableEntity, map[string][]string{
				fmt.Sprintf("variants.%d.stock", i): {"must be greater than or equal to 0"},
			})
			return
		}
		key := catalogs.ValuesKey(vb.Values)
		if seen[key] {
			writeError(w, http.StatusUnprocessableEntity, "Variants cannot be repeated")
			return
		}
		seen[key] = true
	}

	p := &product{ID: s.id(), Name: body.Name, Published: true, Attributes: body.Attributes}
	if body.Published != nil {
		p.Published = *body.Published
	}
	if body.RequiresShipping != nil {
		p.RequiresShipping = *body.RequiresShipping
	}
	for _, vb := range body.Variants {
		v := &variant{ID: s.id(), ProductID: p.ID}
		applyVariant(v, vb)
		p.Variants = append(p.Variants, v)
	}
	s.products[p.ID] = p
	writeJSON(w, http.StatusCreated, toJSON(p))
}

func (s *Store) updateProduct(w http.ResponseWriter, r *http.Request) {
	var body productBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if body.Name != nil {
		p.Name = body.Name
	}
	if body.Published != nil {
		p.Published = *body.Published
	}
	if body.RequiresShipping != nil {
		p.RequiresShipping = *body.RequiresShipping
	}
	if body.Attributes != nil {
		p.Attributes = body.Attributes
	}
	writeJSON(w, http.StatusOK, toJSON(p))
}

func (s *Store) deleteProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	delete(s.products, p.ID)
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Store) createVariant(w http.ResponseWriter, r *http.Request) {
	var body variantBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if body.Stock != nil && *body.Stock < 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string][]string{"stock": {"must be greater than or equal to 0"}})
		return
	}
	key := catalogs.ValuesKey(body.Values)
	for _, existing := range p.Variants {
		if catalogs.ValuesKey(existing.Values) == key {
			writeError(w, http.StatusUnprocessableEntity, "Variants cannot be repeated")
			return
		}
	}

	v := &variant{ID: s.id(), ProductID: p.ID}
	applyVariant(v, body)
	p.Variants = append(p.Variants, v)
	writeJSON(w, http.StatusCreated, variantToJSON(v))
}

func (s *Store) updateVariant(w http.ResponseWriter, r *http.Request) {
	var body variantBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	id, _ := strconv.ParseInt(chi.URLParam(r, "variant"), 10, 64)
	for _, v := range p.Variants {
		if v.ID == id {
			applyVariant(v, body)
			writeJSON(w, http.StatusOK, variantToJSON(v))
			return
		}
	}
	writeError(w, http.StatusNotFound, "Variant with such id does not exist")
}

func applyVariant(v *variant, b variantBody) {
	if b.SKU != nil {
		v.SKU = *b.SKU
	}
	if b.Price != nil {
		v.Price = b.Price
	}
	if b.Cost != nil {
		v.Cost = b.Cost
	}
	if b.Stock != nil {
		stock := *b.Stock
		v.Stock = &stock
	}
	if b.Barcode != nil {
		v.Barcode = *b.Barcode
	}
	if b.Values != nil {
		v.Values = b.Values
	}
}

type variantJSON struct {
	ID        int64                `json:"id"`
	ProductID int64                `json:"product_id"`
	SKU       string               `json:"sku"`
	Price     *string              `json:"price"`
	Cost      *string              `json:"cost"`
	Stock     *int                 `json:"stock"`
	Barcode   string               `json:"barcode"`
	Values    []catalogs.Localized `json:"values"`
}

type productJSON struct {
	ID         int64                `json:"id"`
	Name       catalogs.Localized   `json:"name"`
	Published  bool                 `json:"published"`
	Attributes []catalogs.Localized `json:"attributes"`
	Variants   []variantJSON        `json:"variants"`
}

// money renders a decimal the way the API does: a string with two places.
func money(f *float64) *string {
	if f == nil {
		return nil
	}
	s := strconv.FormatFloat(*f, 'f', 2, 64)
	return &s
}

func variantToJSON(v *variant) variantJSON {
	return variantJSON{
		ID:        v.ID,
		ProductID: v.ProductID,
		SKU:       v.SKU,
		Price:     money(v.Price),
		Cost:      money(v.Cost),
		Stock:     v.Stock,
		Barcode:   v.Barcode,
		Values:    v.Values,
	}
}

func toJSON(p *product) productJSON {
	out := productJSON{
		ID:         p.ID,
		Name:       p.Name,
		Published:  p.Published,
		Attributes: p.Attributes,
		Variants:   make([]variantJSON, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, variantToJSON(v))
	}
	return out
}
