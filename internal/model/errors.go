package model

import "errors"

// ErrDuplicatePost is returned by LeadStore.CreatePost when a submission with
// the same Reddit post ID already exists. The pipeline treats this as an
// expected outcome on re-runs, not a failure.
var ErrDuplicatePost = errors.New("duplicate post")

// ErrNotFound is returned by read operations when no row matches.
var ErrNotFound = errors.New("not found")
