package business

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrorInitializationFail = status.Error(codes.Internal, "Internal configuration is invalid")

	ErrorMissingDestination = status.Error(codes.InvalidArgument, "Confirmation destination url is required")
)
