package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gul-marketplace/internal/adapter/fallback"
	"gul-marketplace/internal/adapter/http/dto"
	"gul-marketplace/internal/core/domain"
	"gul-marketplace/internal/core/ports"
	"gul-marketplace/internal/core/ports/mocks"
	"gul-marketplace/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response carries no data object: %s", w.Body.String())
	return data
}

func testListing(sellerID uuid.UUID) *domain.Listing {
	now := time.Now().UTC()
	category := domain.CategoryElixirs
	return &domain.Listing{
		ID:          uuid.New(),
		SellerID:    sellerID,
		Title:       "Moonlight Elixir",
		Description: "Brewed under a full moon, bottled at dawn.",
		Price:       10_000_000_000,
		Category:    &category,
		Images:      []string{"https://cdn.example.com/elixir.png"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// --- User Handler Tests ---

func TestGetUser_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDir := mocks.NewMockDirectoryService(ctrl)
	h := NewUserHandler(mockDir)

	userID := uuid.New()
	mockDir.EXPECT().ResolveOrCreateUser(gomock.Any(), testWallet).Return(&domain.User{
		ID:            userID,
		WalletAddress: testWallet,
		Listings:      []domain.Listing{},
		Purchases:     []domain.Purchase{},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users?walletAddress="+testWallet, nil)

	h.GetUser(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, userID.String(), data["id"])
	assert.Equal(t, testWallet, data["walletAddress"])
}

func TestGetUser_MissingWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewUserHandler(mocks.NewMockDirectoryService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)

	h.GetUser(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_001")
}

func TestUpsertUser_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDir := mocks.NewMockDirectoryService(ctrl)
	h := NewUserHandler(mockDir)

	username := "gullible_alchemist"
	mockDir.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.ProfileUpdateRequest) (*domain.User, error) {
			assert.Equal(t, testWallet, req.WalletAddress)
			require.NotNil(t, req.Username)
			assert.Equal(t, username, *req.Username)
			return &domain.User{
				ID:            uuid.New(),
				WalletAddress: testWallet,
				Username:      req.Username,
			}, nil
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/users", dto.UserUpsertRequest{
		WalletAddress: testWallet,
		Username:      &username,
	})

	h.UpsertUser(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, username, data["username"])
}

func TestUpsertUser_InvalidWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewUserHandler(mocks.NewMockDirectoryService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/users", map[string]string{
		"walletAddress": "not-a-wallet",
	})

	h.UpsertUser(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Listing Handler Tests ---

func TestListListings_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewListingHandler(mockCatalog, mocks.NewMockDirectoryService(ctrl), nil)

	sellerID := uuid.New()
	sold := false
	mockCatalog.EXPECT().ListListings(gomock.Any(), ports.ListingFilter{SellerID: &sellerID, Sold: &sold}).
		Return([]domain.Listing{*testListing(sellerID)}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/listings?sellerId="+sellerID.String()+"&sold=false", nil)

	h.ListListings(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 1)
}

func TestListListings_InvalidSoldFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewListingHandler(mocks.NewMockCatalogService(ctrl), mocks.NewMockDirectoryService(ctrl), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/listings?sold=maybe", nil)

	h.ListListings(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListListings_DemoFallbackOnOutage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewListingHandler(mockCatalog, mocks.NewMockDirectoryService(ctrl), fallback.NewDemoCatalog())

	mockCatalog.EXPECT().ListListings(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrDatabaseError(assertableErr("connection refused")))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/listings", nil)

	h.ListListings(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.NotEmpty(t, items)
}

func TestListListings_BusinessErrorDoesNotFallBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewListingHandler(mockCatalog, mocks.NewMockDirectoryService(ctrl), fallback.NewDemoCatalog())

	mockCatalog.EXPECT().ListListings(gomock.Any(), gomock.Any()).
		Return(nil, apperror.Validation("unknown category"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/listings?category=griffins", nil)

	h.ListListings(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetListing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewListingHandler(mockCatalog, mocks.NewMockDirectoryService(ctrl), nil)

	listing := testListing(uuid.New())
	mockCatalog.EXPECT().GetListing(gomock.Any(), listing.ID).Return(listing, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/listings/"+listing.ID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: listing.ID.String()}}

	h.GetListing(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, listing.ID.String(), data["id"])
	assert.Equal(t, float64(10_000_000_000), data["price"])
}

func TestGetListing_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewListingHandler(mockCatalog, mocks.NewMockDirectoryService(ctrl), nil)

	id := uuid.New()
	mockCatalog.EXPECT().GetListing(gomock.Any(), id).Return(nil, apperror.ErrNotFound("listing"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/listings/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetListing(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "MKT_004")
}

func TestGetListing_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewListingHandler(mocks.NewMockCatalogService(ctrl), mocks.NewMockDirectoryService(ctrl), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/listings/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	h.GetListing(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateListing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	mockDir := mocks.NewMockDirectoryService(ctrl)
	h := NewListingHandler(mockCatalog, mockDir, nil)

	seller := &domain.User{ID: uuid.New(), WalletAddress: testWallet}
	mockDir.EXPECT().ResolveOrCreateUser(gomock.Any(), testWallet).Return(seller, nil)

	created := testListing(seller.ID)
	mockCatalog.EXPECT().CreateListing(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.CreateListingRequest) (*domain.Listing, error) {
			assert.Equal(t, seller.ID, req.SellerID)
			assert.Equal(t, "Moonlight Elixir", req.Title)
			assert.Equal(t, int64(10_000_000_000), req.Price)
			return created, nil
		})

	category := "elixirs"
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/listings", dto.CreateListingRequest{
		SellerWallet: testWallet,
		Title:        "Moonlight Elixir",
		Description:  "Brewed under a full moon, bottled at dawn.",
		Price:        10_000_000_000,
		Category:     &category,
		Images:       []string{"https://cdn.example.com/elixir.png"},
	})

	h.CreateListing(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, created.ID.String(), data["id"])
}

func TestCreateListing_BindingError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewListingHandler(mocks.NewMockCatalogService(ctrl), mocks.NewMockDirectoryService(ctrl), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/listings", map[string]any{
		"sellerWallet": testWallet,
		"title":        "ab", // below min
		"description":  "too short",
		"price":        0,
	})

	h.CreateListing(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchListing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewListingHandler(mockCatalog, mocks.NewMockDirectoryService(ctrl), nil)

	listing := testListing(uuid.New())
	buyerID := uuid.New()
	listing.Sold = true
	listing.BuyerID = &buyerID

	mockCatalog.EXPECT().PatchSoldState(gomock.Any(), listing.ID, true, &buyerID).Return(listing, nil)

	buyerStr := buyerID.String()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPatch, "/api/v1/listings/"+listing.ID.String(), dto.PatchListingRequest{
		Sold:    true,
		BuyerID: &buyerStr,
	})
	c.Params = gin.Params{{Key: "id", Value: listing.ID.String()}}

	h.PatchListing(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, true, data["sold"])
}

// --- Purchase Handler Tests ---

func TestCreatePurchase_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSettlement := mocks.NewMockSettlementService(ctrl)
	mockDir := mocks.NewMockDirectoryService(ctrl)
	h := NewPurchaseHandler(mockSettlement, mockDir)

	buyer := &domain.User{ID: uuid.New(), WalletAddress: testWallet}
	listingID := uuid.New()
	signature := "5j2KqwFYyZ8e1VbA6oPqrstuvwxyz1234567890abcd"

	mockDir.EXPECT().ResolveOrCreateUser(gomock.Any(), testWallet).Return(buyer, nil)
	mockSettlement.EXPECT().AttemptPurchase(gomock.Any(), ports.PurchaseRequest{
		ListingID:            listingID,
		BuyerID:              buyer.ID,
		TransactionSignature: signature,
		Amount:               10_000_000_000,
	}).Return(&domain.Purchase{
		ID:                   uuid.New(),
		ListingID:            listingID,
		BuyerID:              buyer.ID,
		TransactionSignature: signature,
		Amount:               10_000_000_000,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/purchases", dto.PurchaseRequest{
		ListingID:            listingID.String(),
		BuyerWallet:          testWallet,
		TransactionSignature: signature,
		Amount:               10_000_000_000,
	})

	h.CreatePurchase(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, signature, data["transactionSignature"])
}

func TestCreatePurchase_AlreadySold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSettlement := mocks.NewMockSettlementService(ctrl)
	mockDir := mocks.NewMockDirectoryService(ctrl)
	h := NewPurchaseHandler(mockSettlement, mockDir)

	buyer := &domain.User{ID: uuid.New(), WalletAddress: testWallet}
	mockDir.EXPECT().ResolveOrCreateUser(gomock.Any(), testWallet).Return(buyer, nil)
	mockSettlement.EXPECT().AttemptPurchase(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrAlreadySold())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/purchases", dto.PurchaseRequest{
		ListingID:            uuid.New().String(),
		BuyerWallet:          testWallet,
		TransactionSignature: "5j2KqwFYyZ8e1VbA6oPqrstuvwxyz1234567890abcd",
		Amount:               10_000_000_000,
	})

	h.CreatePurchase(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "MKT_001")
}

func TestCreatePurchase_BindingError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPurchaseHandler(mocks.NewMockSettlementService(ctrl), mocks.NewMockDirectoryService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/purchases", map[string]any{
		"listingId": "not-a-uuid",
	})

	h.CreatePurchase(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPurchases_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSettlement := mocks.NewMockSettlementService(ctrl)
	h := NewPurchaseHandler(mockSettlement, mocks.NewMockDirectoryService(ctrl))

	buyerID := uuid.New()
	mockSettlement.EXPECT().ListPurchases(gomock.Any(), &buyerID).Return([]domain.Purchase{
		{ID: uuid.New(), BuyerID: buyerID, TransactionSignature: "5sigA", Amount: 1},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/purchases?buyerId="+buyerID.String(), nil)

	h.ListPurchases(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Balance Handler Tests ---

func TestGetBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChain := mocks.NewMockChainGateway(ctrl)
	h := NewBalanceHandler(mockChain)

	mockChain.EXPECT().GetTokenBalance(gomock.Any(), testWallet).Return(&ports.TokenBalance{
		Amount:   25_000_000_000,
		Decimals: 9,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/balance?walletAddress="+testWallet, nil)

	h.GetBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(25_000_000_000), data["amount"])
	assert.Equal(t, float64(9), data["decimals"])
}

func TestGetBalance_MissingWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewBalanceHandler(mocks.NewMockChainGateway(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/balance", nil)

	h.GetBalance(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Router wiring ---

func TestSetupRouter_HealthEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := SetupRouter(RouterDeps{
		DirectorySvc:  mocks.NewMockDirectoryService(ctrl),
		CatalogSvc:    mocks.NewMockCatalogService(ctrl),
		SettlementSvc: mocks.NewMockSettlementService(ctrl),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	// No checkers wired means nothing can be unhealthy.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupRouter_AdminRouteGuarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	router := SetupRouter(RouterDeps{
		DirectorySvc:  mocks.NewMockDirectoryService(ctrl),
		CatalogSvc:    mockCatalog,
		SettlementSvc: mocks.NewMockSettlementService(ctrl),
		AdminKey:      "hunter2",
	})

	id := uuid.New()

	// No key: forbidden before the service is ever reached.
	w := httptest.NewRecorder()
	req := jsonRequest(http.MethodPatch, "/api/v1/listings/"+id.String(), dto.PatchListingRequest{Sold: false})
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Correct key reaches the handler.
	listing := testListing(uuid.New())
	mockCatalog.EXPECT().PatchSoldState(gomock.Any(), id, false, gomock.Nil()).Return(listing, nil)

	w = httptest.NewRecorder()
	req = jsonRequest(http.MethodPatch, "/api/v1/listings/"+id.String(), dto.PatchListingRequest{Sold: false})
	req.Header.Set("X-Admin-Key", "hunter2")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

// assertableErr builds a plain error for wrapping in AppErrors.
type assertableErr string

func (e assertableErr) Error() string { return string(e) }
