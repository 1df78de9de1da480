package domain

const (
	RoleUser  = "USER"
	RoleHost  = "HOST"
	RoleAdmin = "ADMIN"
)

// Booking lifecycle states. PENDING, CONFIRMED and ACTIVE hold a listing
// slot; COMPLETED and CANCELED are terminal.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingActive    = "ACTIVE"
	BookingCompleted = "COMPLETED"
	BookingCanceled  = "CANCELED"
)

// NonTerminalStatuses are the states in which a booking still occupies its
// window or ticket quantity.
var NonTerminalStatuses = []string{BookingPending, BookingConfirmed, BookingActive}

const (
	ListingKindProperty = "PROPERTY"
	ListingKindEvent    = "EVENT"
)

// OwnerKind is fixed at booking creation time; it is never re-derived from
// the owner record afterwards.
const (
	OwnerPlatform   = "PLATFORM"
	OwnerIndividual = "INDIVIDUAL"
)

const (
	DirectionApply   = "APPLY"
	DirectionReverse = "REVERSE"
)

const (
	CategoryBookingRevenue      = "BOOKING_REVENUE"
	CategoryCommissionRevenue   = "COMMISSION_REVENUE"
	CategorySubscriptionRevenue = "SUBSCRIPTION_REVENUE"
	CategoryFeatureRevenue      = "FEATURE_REVENUE"
)

const (
	PartyUser     = "USER"
	PartyHost     = "HOST"
	PartyPlatform = "PLATFORM"
)

// Notification types emitted by the booking flow.
const (
	NotifBookingRequest   = "BOOKING_REQUEST"
	NotifBookingConfirmed = "BOOKING_CONFIRMED"
	NotifBookingCanceled  = "BOOKING_CANCELED"
	NotifBookingActive    = "BOOKING_ACTIVE"
	NotifBookingCompleted = "BOOKING_COMPLETED"
)

// Setting keys consulted by the booking engine. Values live in the
// system_settings table and are read at use time, never cached on the row.
const (
	SettingCommissionPercent      = "commission_percent"
	SettingCancellationLockHours  = "cancellation_lock_hours"
	SettingPendingStalenessMinute = "pending_staleness_minutes"
)

// SettingDefaults seeds system_settings on startup.
var SettingDefaults = map[string]string{
	SettingCommissionPercent:      "10",
	SettingCancellationLockHours:  "48",
	SettingPendingStalenessMinute: "120",
}
