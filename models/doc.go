// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: name, email, password, role
  - LoginRequest: email, password
  - SubmitPredictionRequest: boothId, turnoutPercentage, data, confidenceLevel
  - CreatePartyRequest / CreateConstituencyRequest / CreateBoothRequest
  - CreateCampaignRequest / JoinCampaignRequest / UpdateMemberStatusRequest
  - AssignBoothsRequest: boothIds
  - UpdateUserRequest: partial update via pointer fields

SubmitPredictionRequest uses pointer fields for turnoutPercentage and
confidenceLevel so a missing field is distinguishable from a zero.

# Response Types

Types for JSON responses:

  - AuthResponse: token plus the user record
  - SummaryResponse: constituency projection (shares, winner, coverage)
  - MyBoothEntry: assigned booth with the worker's own latest numbers
  - BoothStats / PartyShare: pieces of the summary
  - CampaignSummary: campaign-wide coverage rollup
  - ErrorResponse: error (kind), message

# Domain Types

Internal data structures mirroring the tables:

  - User (password hash never serialized)
  - Party, Campaign, Constituency, Booth
  - Prediction: data is map[party]sharePct
  - CampaignMember: membership request with role, scope, status
  - ConstituencyOverview: Constituency plus coverage stats

# Constants

User roles:

	RoleAdmin  = "ADMIN"
	RoleLeader = "LEADER"
	RoleWorker = "WORKER"

Constituency types:

	ConstituencyLokSabha    = "LOK_SABHA"
	ConstituencyVidhanSabha = "VIDHAN_SABHA"

Campaign membership scopes and statuses:

	ScopeCampaign, ScopeState, ScopeConstituency, ScopeBooth
	MemberPending, MemberApproved, MemberRejected

Error kinds (the "error" field of every error response):

	ErrKindValidation, ErrKindLocked, ErrKindNotFound,
	ErrKindUnauthorized, ErrKindForbidden, ErrKindConflict,
	ErrKindServer
*/
package models
