package domain

// Credential holds the token pair issued by the backend. The wire names
// follow the backend contract (idToken for the access token).
type Credential struct {
	AccessToken  string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Subscription plans
const (
	PlanStarter    = "starter"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Account statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusCanceled = "canceled"
)

// UserProfile represents the authenticated user's account state
type UserProfile struct {
	UID               string `json:"uid,omitempty"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	Plan              string `json:"plan"`
	Usage             int    `json:"usage"`
	IsPaid            bool   `json:"isPaid"`
	IsEmailVerified   bool   `json:"isEmailVerified"`
	Status            string `json:"status"`
	CompanyName       string `json:"companyName,omitempty"`
	CompanyAddress    string `json:"companyAddress,omitempty"`
	SubscriptionStart string `json:"subscriptionStart,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

// HasCompletedSetup reports whether the required profile information has
// been supplied. Setup is complete once a company name is present.
func (p *UserProfile) HasCompletedSetup() bool {
	return p != nil && p.CompanyName != ""
}

// AuthResponse is returned by login and signup
type AuthResponse struct {
	User   *UserProfile `json:"user"`
	Tokens Credential   `json:"tokens"`
}

// Result is the outcome of a session mutation. Session operations convert
// failures into a Result carrying a human-readable message instead of
// surfacing raw errors to callers.
type Result struct {
	Success bool
	Error   string
}

// Ok returns a successful Result
func Ok() Result { return Result{Success: true} }

// Fail returns a failed Result with a user-facing message
func Fail(msg string) Result { return Result{Success: false, Error: msg} }

// ProfileUpdate is a partial profile mutation. Nil fields are omitted from
// the request so the backend only touches what the caller set.
type ProfileUpdate struct {
	CompanyName    *string `json:"companyName,omitempty"`
	CompanyAddress *string `json:"companyAddress,omitempty"`
	Plan           *string `json:"plan,omitempty"`
}

// Party identifies a shipper or consignee on a Bill of Lading
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Carrier is a party with an optional SCAC code
type Carrier struct {
	Party
	SCAC string `json:"scac,omitempty"`
}

// Parties groups the three parties on a Bill of Lading
type Parties struct {
	Shipper   Party   `json:"shipper"`
	Consignee Party   `json:"consignee"`
	Carrier   Carrier `json:"carrier"`
}

// Routing describes the voyage
type Routing struct {
	VesselName      string `json:"vessel_name,omitempty"`
	PortOfLoading   string `json:"port_of_loading,omitempty"`
	PortOfDischarge string `json:"port_of_discharge,omitempty"`
}

// CargoItem is a single line of cargo
type CargoItem struct {
	ContainerNumber string  `json:"container_number,omitempty"`
	SealNumber      string  `json:"seal_number,omitempty"`
	Description     string  `json:"description"`
	GrossWeightKG   string  `json:"gross_weight_kg,omitempty"`
	PackageType     string  `json:"package_type,omitempty"`
	PackageCount    string  `json:"package_count,omitempty"`
	MeasurementCBM  float64 `json:"measurement_cbm,omitempty"`
}

// Reference holds document reference numbers
type Reference struct {
	BOLNumber     string `json:"bol_number,omitempty"`
	BookingNumber string `json:"booking_number,omitempty"`
}

// Bill of Lading statuses
const (
	BOLStatusDraft    = "Draft"
	BOLStatusManual   = "Manual"
	BOLStatusComplete = "Complete"
)

// BillOfLadingData is the structured shipment payload extracted from a
// document or entered manually
type BillOfLadingData struct {
	Parties   Parties     `json:"parties"`
	Routing   *Routing    `json:"routing,omitempty"`
	Cargo     []CargoItem `json:"cargo"`
	Reference *Reference  `json:"reference,omitempty"`
	Status    string      `json:"status,omitempty"`
}

// Shipment is a stored document with extraction metadata. Treated as an
// opaque payload by the session core; typed here for the endpoint clients.
type Shipment struct {
	BillOfLadingData
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`

	// File information
	FileURL  string `json:"fileUrl,omitempty"`
	FileName string `json:"fileName,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
	FileType string `json:"fileType,omitempty"`

	// AI extraction metadata
	AIConfidence     float64 `json:"aiConfidence,omitempty"`
	AIProcessingTime float64 `json:"aiProcessingTime,omitempty"`
	AIModelUsed      string  `json:"aiModelUsed,omitempty"`
	Source           string  `json:"source,omitempty"`
}

// ShipmentPage is a paginated shipment listing
type ShipmentPage struct {
	Items    []Shipment `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	HasMore  bool       `json:"hasMore"`
}

// OCRExtractResponse is the result of document extraction
type OCRExtractResponse struct {
	Data           BillOfLadingData `json:"data"`
	Confidence     float64          `json:"confidence"`
	ProcessingTime float64          `json:"processingTime"`
	ModelUsed      string           `json:"modelUsed,omitempty"`
	DocumentID     string           `json:"documentId,omitempty"`
}

// AdminUser is a profile with its ID, as listed on the admin surface
type AdminUser struct {
	UserProfile
	ID string `json:"id"`
}

// AdminUserPage is a paginated admin user listing
type AdminUserPage struct {
	Items    []AdminUser `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	HasMore  bool        `json:"hasMore"`
}

// AdminStats summarizes platform activity for the admin dashboard
type AdminStats struct {
	TotalUsers          int     `json:"totalUsers"`
	TotalShipments      int     `json:"totalShipments"`
	ActiveSubscriptions int     `json:"activeSubscriptions"`
	MonthlyRevenue      float64 `json:"monthlyRevenue"`
}
