package rbac

import "go-hrpay/internal/domain"

type EnforceRequest = domain.EnforceRequest
