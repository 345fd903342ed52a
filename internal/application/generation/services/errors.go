package services

import "errors"

// ErrQueueFull signals the worker pool cannot accept more attempts.
var ErrQueueFull = errors.New("generation queue is full")
