package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librairie/internal/catalog"
	"librairie/internal/http/mocks"
	"librairie/internal/testutil"
)

func evaluateResult(books []catalog.Book) catalog.ResultPage {
	return catalog.ResultPage{
		Books:        books,
		PageIndex:    1,
		PageSize:     catalog.DefaultPageSize,
		TotalItems:   len(books),
		TotalPages:   1,
		FirstVisible: 1,
		LastVisible:  len(books),
		PageNumbers:  []int{1},
	}
}

func TestCatalogHandler_List(t *testing.T) {
	books := testutil.Books()

	tests := []struct {
		name           string
		target         string
		setupMock      func(m *mocks.MockCatalogService)
		expectedStatus int
	}{
		{
			name:   "success - plain browse",
			target: "/books",
			setupMock: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					Evaluate(gomock.Any(), gomock.Any()).
					Return(evaluateResult(books), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "success - filters and sort",
			target: "/books?lang=fr,de&format=paperback&avail=in_stock&pmin=10&pmax=80&sort=-price_chf&page=2&page_size=48",
			setupMock: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					Evaluate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, state catalog.QueryState) (catalog.ResultPage, error) {
						assert.Equal(t, []catalog.Language{catalog.LanguageFR, catalog.LanguageDE}, state.Filter.Languages)
						assert.Equal(t, []catalog.Format{catalog.FormatPaperback}, state.Filter.Formats)
						assert.Equal(t, catalog.SortPriceDesc, state.Sort)
						assert.Equal(t, 2, state.Page)
						assert.Equal(t, 48, state.PageSize)
						assert.Empty(t, state.Query, "browse endpoint must not search")
						return evaluateResult(nil), nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad language value",
			target:         "/books?lang=fr,klingon",
			setupMock:      func(m *mocks.MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad sort key",
			target:         "/books?sort=popularity",
			setupMock:      func(m *mocks.MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "inverted price range",
			target:         "/books?pmin=80&pmax=20",
			setupMock:      func(m *mocks.MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-numeric price bound",
			target:         "/books?pmin=cheap",
			setupMock:      func(m *mocks.MockCatalogService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "catalog unavailable",
			target: "/books",
			setupMock: func(m *mocks.MockCatalogService) {
				m.EXPECT().
					Evaluate(gomock.Any(), gomock.Any()).
					Return(catalog.ResultPage{}, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			mockSvc := mocks.NewMockCatalogService(ctrl)
			tt.setupMock(mockSvc)
			handler := NewCatalogHandler(mockSvc)

			w := httptest.NewRecorder()
			handler.List(w, testutil.NewRequest(tt.target))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCatalogHandler_List_Meta(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSvc := mocks.NewMockCatalogService(ctrl)
	mockSvc.EXPECT().
		Evaluate(gomock.Any(), gomock.Any()).
		Return(catalog.ResultPage{
			Books:        testutil.Books(),
			PageIndex:    2,
			PageSize:     24,
			TotalItems:   30,
			TotalPages:   2,
			FirstVisible: 25,
			LastVisible:  30,
			PageNumbers:  []int{1, 2},
		}, nil)
	handler := NewCatalogHandler(mockSvc)

	w := httptest.NewRecorder()
	handler.List(w, testutil.NewRequest("/books?page=2"))

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	meta, ok := resp.Body["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(30), meta["total"])
	assert.Equal(t, float64(2), meta["total_pages"])
	assert.Equal(t, float64(25), meta["first"])
	assert.Equal(t, float64(30), meta["last"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, meta["pages"])
}

func TestCatalogHandler_Recent(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantLimit int
	}{
		{"default limit", "/books/recent", 8},
		{"explicit limit", "/books/recent?limit=12", 12},
		{"limit capped", "/books/recent?limit=999", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			mockSvc := mocks.NewMockCatalogService(ctrl)
			mockSvc.EXPECT().
				Recent(gomock.Any(), tt.wantLimit).
				Return(testutil.Books(), nil)
			handler := NewCatalogHandler(mockSvc)

			w := httptest.NewRecorder()
			handler.Recent(w, testutil.NewRequest(tt.target))

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestCatalogHandler_GetByID(t *testing.T) {
	books := testutil.Books()

	tests := []struct {
		name           string
		id             string
		setupMock      func(m *mocks.MockCatalogService)
		expectedStatus int
	}{
		{
			name: "found",
			id:   "b1",
			setupMock: func(m *mocks.MockCatalogService) {
				m.EXPECT().Get(gomock.Any(), "b1").Return(books[0], nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			id:   "missing",
			setupMock: func(m *mocks.MockCatalogService) {
				m.EXPECT().Get(gomock.Any(), "missing").Return(catalog.Book{}, catalog.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "store error",
			id:   "b1",
			setupMock: func(m *mocks.MockCatalogService) {
				m.EXPECT().Get(gomock.Any(), "b1").Return(catalog.Book{}, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			mockSvc := mocks.NewMockCatalogService(ctrl)
			tt.setupMock(mockSvc)
			handler := NewCatalogHandler(mockSvc)

			r := testutil.NewRequest("/books/" + tt.id)
			r.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			handler.GetByID(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCatalogHandler_Related(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSvc := mocks.NewMockCatalogService(ctrl)
	mockSvc.EXPECT().
		Related(gomock.Any(), "b1", 4).
		Return(testutil.Books()[1:], nil)
	handler := NewCatalogHandler(mockSvc)

	r := testutil.NewRequest("/books/b1/related")
	r.SetPathValue("id", "b1")
	w := httptest.NewRecorder()
	handler.Related(w, r)

	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusOK, resp.Code)
	data, ok := resp.Body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 2)
}

func TestCatalogHandler_Related_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockSvc := mocks.NewMockCatalogService(ctrl)
	mockSvc.EXPECT().
		Related(gomock.Any(), "missing", 4).
		Return(nil, catalog.ErrNotFound)
	handler := NewCatalogHandler(mockSvc)

	r := testutil.NewRequest("/books/missing/related")
	r.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	handler.Related(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
