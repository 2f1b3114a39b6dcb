// Package profile reads a résumé and derives what the search pipeline needs
// from it: the candidate's name, a search-oriented summary, an initial list of
// recommended jobs and a personality assessment.
//
// Consultant answers follow-up questions about a job the user saved, grounded
// on the listings most similar to the question.
package profile
