// Package insights turns store growth comparisons into performance tiers,
// prioritised findings and recommendations.
//
// Every rule is a pure function of a store's GrowthRecord. The process label
// (for example "TODC") only changes the wording of the messages.
package insights
