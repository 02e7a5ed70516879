package dto

// UserUpsertRequest is the request body for profile upserts. A nil field is
// left unchanged; a present empty string clears the stored value.
type UserUpsertRequest struct {
	WalletAddress string  `json:"walletAddress" binding:"required,solana_addr"`
	Username      *string `json:"username,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	Avatar        *string `json:"avatar,omitempty" binding:"omitempty,safe_url"`
}

// UserResponse is the response body for directory lookups and upserts.
type UserResponse struct {
	ID            string             `json:"id"`
	WalletAddress string             `json:"walletAddress"`
	Username      *string            `json:"username,omitempty"`
	Bio           *string            `json:"bio,omitempty"`
	Avatar        *string            `json:"avatar,omitempty"`
	CreatedAt     string             `json:"createdAt"`
	Listings      []ListingResponse  `json:"listings"`
	Purchases     []PurchaseResponse `json:"purchases"`
}

// SellerResponse is the seller profile embedded in listing reads.
type SellerResponse struct {
	WalletAddress string  `json:"walletAddress"`
	Username      *string `json:"username,omitempty"`
	Avatar        *string `json:"avatar,omitempty"`
}

// CreateListingRequest is the request body for listing creation. Price is in
// $GUL base units (9 decimals).
type CreateListingRequest struct {
	SellerWallet string   `json:"sellerWallet" binding:"required,solana_addr"`
	Title        string   `json:"title" binding:"required,min=3,max=100"`
	Description  string   `json:"description" binding:"required,min=10,max=2000"`
	Price        int64    `json:"price" binding:"required,gt=0"`
	Category     *string  `json:"category,omitempty"`
	Images       []string `json:"images" binding:"required,min=1,dive,safe_url"`
}

// PatchListingRequest is the admin-only request body for forcing sold state.
type PatchListingRequest struct {
	Sold    bool    `json:"sold"`
	BuyerID *string `json:"buyerId,omitempty" binding:"omitempty,uuid"`
}

// ListingResponse is the response body for catalog reads.
type ListingResponse struct {
	ID          string          `json:"id"`
	SellerID    string          `json:"sellerId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       int64           `json:"price"`
	Category    *string         `json:"category,omitempty"`
	Images      []string        `json:"images"`
	Sold        bool            `json:"sold"`
	BuyerID     *string         `json:"buyerId,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
	Seller      *SellerResponse `json:"seller,omitempty"`
}

// PurchaseRequest is the request body for purchase settlement. Amount is in
// $GUL base units and must equal the listing price exactly.
type PurchaseRequest struct {
	ListingID            string `json:"listingId" binding:"required,uuid"`
	BuyerWallet          string `json:"buyerWallet" binding:"required,solana_addr"`
	TransactionSignature string `json:"transactionSignature" binding:"required,min=32,max=128"`
	Amount               int64  `json:"amount" binding:"required,gt=0"`
}

// PurchaseResponse is the response body for settled purchases.
type PurchaseResponse struct {
	ID                   string           `json:"id"`
	ListingID            string           `json:"listingId"`
	BuyerID              string           `json:"buyerId"`
	TransactionSignature string           `json:"transactionSignature"`
	Amount               int64            `json:"amount"`
	CreatedAt            string           `json:"createdAt"`
	Listing              *ListingResponse `json:"listing,omitempty"`
	Buyer                *SellerResponse  `json:"buyer,omitempty"`
}

// BalanceResponse is the response body for on-chain balance reads.
type BalanceResponse struct {
	WalletAddress string `json:"walletAddress"`
	Amount        int64  `json:"amount"` // base units
	Decimals      int    `json:"decimals"`
}
