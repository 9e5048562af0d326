package models

import "time"

// User roles
const (
	RoleAdmin  = "ADMIN"
	RoleLeader = "LEADER"
	RoleWorker = "WORKER"
)

// Constituency types
const (
	ConstituencyLokSabha    = "LOK_SABHA"
	ConstituencyVidhanSabha = "VIDHAN_SABHA"
)

// Campaign membership roles
const (
	CampaignRolePartyHead               = "PARTY_HEAD"
	CampaignRoleCampaignDataManager     = "CAMPAIGN_DATA_MANAGER"
	CampaignRoleConstituencyManager     = "CONSTITUENCY_MANAGER"
	CampaignRoleConstituencyLeader      = "CONSTITUENCY_LEADER"
	CampaignRoleConstituencyDataManager = "CONSTITUENCY_DATA_MANAGER"
	CampaignRoleBoothManager            = "BOOTH_MANAGER"
	CampaignRoleBoothDataManager        = "BOOTH_DATA_MANAGER"
	CampaignRoleBoothWorker             = "BOOTH_WORKER"
)

// Campaign membership scopes
const (
	ScopeCampaign     = "CAMPAIGN"
	ScopeState        = "STATE"
	ScopeConstituency = "CONSTITUENCY"
	ScopeBooth        = "BOOTH"
)

// Campaign membership statuses
const (
	MemberPending  = "PENDING"
	MemberApproved = "APPROVED"
	MemberRejected = "REJECTED"
)

// Error kinds emitted in the "error" field of ErrorResponse.
// A locked constituency is an expected business state, so it gets its
// own kind rather than folding into validation_error.
const (
	ErrKindValidation   = "validation_error"
	ErrKindLocked       = "locked"
	ErrKindNotFound     = "not_found"
	ErrKindUnauthorized = "unauthorized"
	ErrKindForbidden    = "forbidden"
	ErrKindConflict     = "conflict"
	ErrKindServer       = "server_error"
)

// Request types

type RegisterRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Password       string  `json:"password"`
	Role           string  `json:"role"`
	ConstituencyID *string `json:"constituencyId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// data: party short-name -> vote share percentage (0 to 100)
type SubmitPredictionRequest struct {
	BoothID           string             `json:"boothId"`
	TurnoutPercentage *float64           `json:"turnoutPercentage"`
	Data              map[string]float64 `json:"data"`
	ConfidenceLevel   *int               `json:"confidenceLevel"`
}

type CreatePartyRequest struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	LogoURL   string `json:"logoUrl"`
}

type CreateConstituencyRequest struct {
	Name       string  `json:"name"`
	State      string  `json:"state"`
	Type       string  `json:"type"`
	CampaignID *string `json:"campaignId"`
}

type CreateBoothRequest struct {
	BoothNumber    string `json:"boothNumber"`
	Name           string `json:"name"`
	ConstituencyID string `json:"constituencyId"`
	VoterCount     *int   `json:"voterCount"`
}

type CreateCampaignRequest struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	PartyID     *string `json:"partyId"`
	State       string  `json:"state"`
	Description string  `json:"description"`
}

type JoinCampaignRequest struct {
	Role           string  `json:"role"`
	Scope          string  `json:"scope"`
	ConstituencyID *string `json:"constituencyId"`
	BoothID        *string `json:"boothId"`
}

type UpdateMemberStatusRequest struct {
	Status string `json:"status"`
}

type AssignBoothsRequest struct {
	BoothIDs []string `json:"boothIds"`
}

type UpdateUserRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Role           *string `json:"role"`
	ConstituencyID *string `json:"constituencyId"`
}

// Response types

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type MyBoothEntry struct {
	BoothID     string      `json:"boothId"`
	BoothNumber string      `json:"boothNumber"`
	Name        string      `json:"name"`
	VoterCount  int         `json:"voterCount"`
	Prediction  *Prediction `json:"prediction"`
}

// PartyShare is one party's aggregated vote share, percentage 0-100.
type PartyShare struct {
	Party     string  `json:"party"`
	VoteShare float64 `json:"voteShare"`
}

type ConstituencyRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type BoothStats struct {
	TotalBooths   int `json:"totalBooths"`
	UpdatedBooths int `json:"updatedBooths"`
}

// SummaryResponse is the leader dashboard payload for one constituency.
type SummaryResponse struct {
	Constituency    ConstituencyRef `json:"constituency"`
	PredictedWinner *PartyShare     `json:"predictedWinner"`
	PartyVoteShare  []PartyShare    `json:"partyVoteShare"`
	BoothStats      BoothStats      `json:"boothStats"`
	LastUpdated     *time.Time      `json:"lastUpdated"`
}

// CampaignSummary is the campaign-level coverage rollup. Coverage only;
// no vote share or winner is computed across constituencies.
type CampaignSummary struct {
	TotalConstituencies int     `json:"totalConstituencies"`
	TotalBooths         int     `json:"totalBooths"`
	UpdatedBooths       int     `json:"updatedBooths"`
	CoveragePct         float64 `json:"coveragePct"`
}

// Domain types

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone,omitempty"`
	PasswordHash   string    `json:"-"` // Never expose in JSON
	Role           string    `json:"role"`
	ConstituencyID *string   `json:"constituencyId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Party struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"shortName"`
	LogoURL   *string   `json:"logoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Campaign struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	PartyID     *string   `json:"partyId,omitempty"`
	State       string    `json:"state"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Constituency struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	State      string    `json:"state"`
	Type       string    `json:"type"`
	IsLocked   bool      `json:"isLocked"`
	CampaignID *string   `json:"campaignId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ConstituencyOverview is a Constituency enriched with coverage counts
// for the admin overview list.
type ConstituencyOverview struct {
	Constituency
	TotalBooths   int     `json:"totalBooths"`
	UpdatedBooths int     `json:"updatedBooths"`
	Coverage      float64 `json:"coverage"`
}

type Booth struct {
	ID             string    `json:"id"`
	BoothNumber    string    `json:"boothNumber"`
	Name           string    `json:"name"`
	ConstituencyID string    `json:"constituencyId"`
	VoterCount     int       `json:"voterCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Prediction is one worker's estimate for one booth. At most one row
// exists per (booth, user) pair; resubmission replaces it in place.
type Prediction struct {
	ID                string             `json:"id"`
	BoothID           string             `json:"boothId"`
	UserID            string             `json:"userId"`
	TurnoutPercentage float64            `json:"turnoutPercentage"`
	Data              map[string]float64 `json:"data"`
	ConfidenceLevel   int                `json:"confidenceLevel"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

type CampaignMember struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	CampaignID     string    `json:"campaignId"`
	Role           string    `json:"role"`
	Scope          string    `json:"scope"`
	ConstituencyID *string   `json:"constituencyId,omitempty"`
	BoothID        *string   `json:"boothId,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
