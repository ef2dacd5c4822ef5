package model

// SubscriptionStatus is the point-in-time answer from the subscription
// collaborator. It is fetched fresh on every evaluation and never cached
// across ticks; a membership can lapse between two polls.
//
// The engine gates on the boolean only; why a subscription is inactive
// (expired, never purchased, suspended) is the collaborator's business.
type SubscriptionStatus struct {
	Active bool
}
