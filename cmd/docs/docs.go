// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/ledger_backend/main.go -o cmd/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/accounts": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Adds an account to the chart. Codes are unique; a parent must exist and must not create a cycle.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "accounts"
                ],
                "summary": "Create a new account",
                "parameters": [
                    {
                        "description": "Account details",
                        "name": "account",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateAccountRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.AccountResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid input format or validation error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Duplicate account code",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Failed to create account",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Lists accounts ordered by code, optionally filtered by type and active flag.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "accounts"
                ],
                "summary": "List accounts",
                "parameters": [
                    {
                        "description": "Account type",
                        "name": "type",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "ASSET",
                            "LIABILITY",
                            "EQUITY",
                            "REVENUE",
                            "EXPENSE"
                        ]
                    },
                    {
                        "description": "Only active accounts",
                        "name": "activeOnly",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListAccountsResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid query parameters",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/accounts/by-code/{code}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "accounts"
                ],
                "summary": "Get an account by chart code",
                "parameters": [
                    {
                        "description": "Account code",
                        "name": "code",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.AccountResponse"
                        }
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/accounts/tree": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "accounts"
                ],
                "summary": "Chart of accounts as a tree",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.AccountNodeResponse"
                            }
                        }
                    }
                }
            }
        },
        "/accounts/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "accounts"
                ],
                "summary": "Get an account by ID",
                "parameters": [
                    {
                        "description": "Account ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.AccountResponse"
                        }
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Updates name, description, active flag or parent. Code, type and currency are fixed.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "accounts"
                ],
                "summary": "Update an account",
                "parameters": [
                    {
                        "description": "Account ID to update",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Account details to update",
                        "name": "account",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UpdateAccountRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.AccountResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid input or hierarchy cycle",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Accounts are never deleted; an inactive account rejects new postings.",
                "tags": [
                    "accounts"
                ],
                "summary": "Deactivate an account",
                "parameters": [
                    {
                        "description": "Account ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Account not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/currencies": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Adds a currency. Flagging it base replaces the previous base currency.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "currencies"
                ],
                "summary": "Create a new currency",
                "parameters": [
                    {
                        "description": "Currency details",
                        "name": "currency",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateCurrencyRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.CurrencyResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid input format or validation error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Currency already exists",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "currencies"
                ],
                "summary": "List all currencies",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.CurrencyResponse"
                            }
                        }
                    }
                }
            }
        },
        "/currencies/base": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "currencies"
                ],
                "summary": "Get the base currency",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CurrencyResponse"
                        }
                    },
                    "404": {
                        "description": "No base currency configured",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/currencies/{currencyCode}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "currencies"
                ],
                "summary": "Get currency by code",
                "parameters": [
                    {
                        "description": "Currency Code (e.g., USD)",
                        "name": "currencyCode",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CurrencyResponse"
                        }
                    },
                    "404": {
                        "description": "Currency not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/exchange-rates": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Adds the rate converting one unit of the source currency, effective from a date.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "exchange rates"
                ],
                "summary": "Create a new exchange rate",
                "parameters": [
                    {
                        "description": "Exchange Rate details",
                        "name": "rate",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateExchangeRateRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.ExchangeRateResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid input format or validation error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "A rate for this pair and date already exists",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "exchange rates"
                ],
                "summary": "List exchange rates",
                "parameters": [
                    {
                        "description": "Source currency",
                        "name": "from",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Target currency",
                        "name": "to",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.ExchangeRateResponse"
                            }
                        }
                    }
                }
            }
        },
        "/exchange-rates/convert": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Converts at the rate effective on the date, rounded half-up to the target currency's places.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "exchange rates"
                ],
                "summary": "Convert an amount",
                "parameters": [
                    {
                        "description": "Conversion request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ConvertRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Conversion"
                        }
                    },
                    "422": {
                        "description": "No rate available",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/exchange-rates/rate": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Resolves the rate effective on a date: identity, direct, inverse, then via the base currency.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "exchange rates"
                ],
                "summary": "Resolve an exchange rate",
                "parameters": [
                    {
                        "description": "Source currency",
                        "name": "from",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Target currency",
                        "name": "to",
                        "in": "query",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Effective date (YYYY-MM-DD), defaults to today",
                        "name": "date",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.ResolvedRate"
                        }
                    },
                    "422": {
                        "description": "No rate available",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/fiscal-periods": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "fiscal periods"
                ],
                "summary": "Open a fiscal period",
                "parameters": [
                    {
                        "description": "Period",
                        "name": "period",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateFiscalPeriodRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.FiscalPeriodResponse"
                        }
                    },
                    "400": {
                        "description": "Start after end",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Overlaps an existing period",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "fiscal periods"
                ],
                "summary": "List fiscal periods",
                "parameters": [
                    {
                        "description": "Fiscal year",
                        "name": "year",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.FiscalPeriodResponse"
                            }
                        }
                    }
                }
            }
        },
        "/fiscal-periods/current": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "fiscal periods"
                ],
                "summary": "Period containing a date",
                "parameters": [
                    {
                        "description": "Date (YYYY-MM-DD), defaults to today",
                        "name": "date",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.FiscalPeriodResponse"
                        }
                    },
                    "409": {
                        "description": "No period defined for the date",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/fiscal-periods/year": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "fiscal periods"
                ],
                "summary": "Open twelve monthly periods for a calendar year",
                "parameters": [
                    {
                        "description": "Year",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateFiscalYearRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.FiscalPeriodResponse"
                            }
                        }
                    },
                    "409": {
                        "description": "Overlaps an existing period",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/fiscal-periods/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "fiscal periods"
                ],
                "summary": "Get a fiscal period",
                "parameters": [
                    {
                        "description": "Period ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.FiscalPeriodResponse"
                        }
                    },
                    "404": {
                        "description": "Period not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/fiscal-periods/{id}/balances": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "fiscal periods"
                ],
                "summary": "Account balance snapshot of a period",
                "parameters": [
                    {
                        "description": "Period ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.AccountBalanceResponse"
                            }
                        }
                    }
                }
            }
        },
        "/fiscal-periods/{id}/close": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Snapshots balances of every touched account and locks the period. Fails while drafts remain.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "fiscal periods"
                ],
                "summary": "Close a fiscal period",
                "parameters": [
                    {
                        "description": "Period ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.FiscalPeriodResponse"
                        }
                    },
                    "409": {
                        "description": "Already closed, or drafts remain",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/fiscal-years/{year}/close": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Posts the closing entry into retained earnings and carries balances into the next year.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "fiscal periods"
                ],
                "summary": "Close a fiscal year",
                "parameters": [
                    {
                        "description": "Fiscal year",
                        "name": "year",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.YearCloseResponse"
                        }
                    },
                    "409": {
                        "description": "Periods still open, or year already closed",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/journal-entries": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Stores a draft, or validates and posts it in one step when post is true.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "journal entries"
                ],
                "summary": "Create a journal entry",
                "parameters": [
                    {
                        "description": "Journal entry",
                        "name": "entry",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateJournalEntryRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalEntryResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error (rule in body)",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Fiscal period closed or missing (reason in body)",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Lists entries newest first using token-based pagination.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "journal entries"
                ],
                "summary": "List journal entries",
                "parameters": [
                    {
                        "description": "Entry status",
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "DRAFT",
                            "POSTED",
                            "REVERSED"
                        ]
                    },
                    {
                        "description": "From date (YYYY-MM-DD)",
                        "name": "fromDate",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "To date (YYYY-MM-DD)",
                        "name": "toDate",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Page size",
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "default": 20
                    },
                    {
                        "description": "Token from the previous page",
                        "name": "nextToken",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListJournalEntriesResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid query parameters",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/journal-entries/by-number/{number}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "journal entries"
                ],
                "summary": "Get a journal entry by its number",
                "parameters": [
                    {
                        "description": "Entry number, e.g. JE-20250115-3FA2C1",
                        "name": "number",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalEntryResponse"
                        }
                    },
                    "404": {
                        "description": "Entry not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/journal-entries/validate": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "tags": [
                    "journal entries"
                ],
                "summary": "Validate a journal entry without storing it",
                "parameters": [
                    {
                        "description": "Journal entry",
                        "name": "entry",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateJournalEntryRequest"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Entry would post"
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Period state error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/journal-entries/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "journal entries"
                ],
                "summary": "Get a journal entry with its lines",
                "parameters": [
                    {
                        "description": "Entry ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalEntryResponse"
                        }
                    },
                    "404": {
                        "description": "Entry not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "journal entries"
                ],
                "summary": "Replace a draft entry",
                "parameters": [
                    {
                        "description": "Entry ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "New header and lines",
                        "name": "entry",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateJournalEntryRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalEntryResponse"
                        }
                    },
                    "409": {
                        "description": "Entry is not a draft",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "journal entries"
                ],
                "summary": "Delete a draft entry",
                "parameters": [
                    {
                        "description": "Entry ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "409": {
                        "description": "Entry is not a draft",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/journal-entries/{id}/post": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Re-validates the draft in full and moves it to POSTED.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "journal entries"
                ],
                "summary": "Post a draft entry",
                "parameters": [
                    {
                        "description": "Entry ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalEntryResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Not a draft, or period closed",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/journal-entries/{id}/reverse": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Posts a counter-entry with debits and credits swapped and marks the original REVERSED.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "journal entries"
                ],
                "summary": "Reverse a posted entry",
                "parameters": [
                    {
                        "description": "Entry ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Optional reversal date",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/dto.ReverseJournalEntryRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "The counter-entry",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalEntryResponse"
                        }
                    },
                    "409": {
                        "description": "Not posted, or target period closed",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/postings/invoice": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Payables debit each line item and credit the control account; receivables the reverse.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "postings"
                ],
                "summary": "Post an approved invoice",
                "parameters": [
                    {
                        "description": "Invoice",
                        "name": "invoice",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.InvoicePostingRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalEntryResponse"
                        }
                    },
                    "400": {
                        "description": "Line items do not match the total, or account missing",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Period closed or missing",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/postings/payment": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Payables debit the control account and credit the bank; receivables the reverse.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "postings"
                ],
                "summary": "Post a payment",
                "parameters": [
                    {
                        "description": "Payment",
                        "name": "payment",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.PaymentPostingRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.JournalEntryResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Period closed or missing",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/reports/aging": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Buckets outstanding payables or receivables by days past due.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Aging report",
                "parameters": [
                    {
                        "description": "Open item kind",
                        "name": "kind",
                        "in": "query",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "PAYABLE",
                            "RECEIVABLE"
                        ]
                    },
                    {
                        "description": "As-of date (YYYY-MM-DD), defaults to today",
                        "name": "asOf",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Inclusive upper bounds of custom buckets",
                        "name": "bucket",
                        "in": "query",
                        "type": "array",
                        "items": {
                            "type": "integer"
                        },
                        "collectionFormat": "multi"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.AgingReport"
                        }
                    }
                }
            }
        },
        "/reports/balance-sheet": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Assets, liabilities and equity as of a date, including current-period net income.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Balance sheet",
                "parameters": [
                    {
                        "description": "As-of date (YYYY-MM-DD), defaults to today",
                        "name": "asOf",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Include the same statement shifted back",
                        "name": "comparative",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.BalanceSheet"
                        }
                    }
                }
            }
        },
        "/reports/cash-flow": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Cash flow statement (indirect method)",
                "parameters": [
                    {
                        "description": "From date (YYYY-MM-DD), defaults to January 1",
                        "name": "fromDate",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "To date (YYYY-MM-DD), defaults to today",
                        "name": "toDate",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Include the same statement shifted back",
                        "name": "comparative",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.CashFlowStatement"
                        }
                    }
                }
            }
        },
        "/reports/income-statement": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Income statement",
                "parameters": [
                    {
                        "description": "From date (YYYY-MM-DD), defaults to January 1",
                        "name": "fromDate",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "To date (YYYY-MM-DD), defaults to today",
                        "name": "toDate",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Include the same statement shifted back",
                        "name": "comparative",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "description": "Group lines into sections",
                        "name": "details",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.IncomeStatement"
                        }
                    }
                }
            }
        },
        "/reports/package": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Balance sheet as of a date with the income and cash flow statements for the period ending on it.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Financial statements package",
                "parameters": [
                    {
                        "description": "Report date (YYYY-MM-DD), defaults to today",
                        "name": "asOf",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Period start (YYYY-MM-DD), defaults to January 1 of the report year",
                        "name": "fromDate",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Include comparative figures, defaults to true",
                        "name": "comparative",
                        "in": "query",
                        "type": "boolean"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.StatementPackage"
                        }
                    }
                }
            }
        },
        "/reports/trial-balance": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Trial balance",
                "parameters": [
                    {
                        "description": "As-of date (YYYY-MM-DD), defaults to today",
                        "name": "asOf",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.TrialBalanceResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.AgingBucket": {
            "type": "object",
            "properties": {
                "label": {
                    "type": "string"
                },
                "maxDays": {
                    "type": "integer"
                },
                "minDays": {
                    "type": "integer"
                }
            }
        },
        "domain.AgingReport": {
            "type": "object",
            "properties": {
                "asOf": {
                    "type": "string"
                },
                "bucketTotals": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "number"
                    }
                },
                "buckets": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.AgingBucket"
                    }
                },
                "grandTotal": {
                    "type": "number"
                },
                "kind": {
                    "type": "string",
                    "enum": [
                        "PAYABLE",
                        "RECEIVABLE"
                    ]
                },
                "rows": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.AgingRow"
                    }
                }
            }
        },
        "domain.AgingRow": {
            "type": "object",
            "properties": {
                "buckets": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "number"
                    }
                },
                "counterpartyID": {
                    "type": "string"
                },
                "counterpartyName": {
                    "type": "string"
                },
                "total": {
                    "type": "number"
                }
            }
        },
        "domain.BalanceSheet": {
            "type": "object",
            "properties": {
                "asOf": {
                    "type": "string"
                },
                "assets": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.StatementSection"
                    }
                },
                "balanced": {
                    "type": "boolean"
                },
                "comparative": {
                    "$ref": "#/definitions/domain.BalanceSheet"
                },
                "equity": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.StatementSection"
                    }
                },
                "liabilities": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.StatementSection"
                    }
                },
                "totalAssets": {
                    "type": "number"
                },
                "totalEquity": {
                    "type": "number"
                },
                "totalLiabilities": {
                    "type": "number"
                }
            }
        },
        "domain.CashFlowSection": {
            "type": "object",
            "properties": {
                "lines": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.StatementLine"
                    }
                },
                "title": {
                    "type": "string"
                },
                "total": {
                    "type": "number"
                }
            }
        },
        "domain.CashFlowStatement": {
            "type": "object",
            "properties": {
                "beginningCash": {
                    "type": "number"
                },
                "comparative": {
                    "$ref": "#/definitions/domain.CashFlowStatement"
                },
                "endingCash": {
                    "type": "number"
                },
                "financing": {
                    "$ref": "#/definitions/domain.CashFlowSection"
                },
                "fromDate": {
                    "type": "string"
                },
                "investing": {
                    "$ref": "#/definitions/domain.CashFlowSection"
                },
                "netChange": {
                    "type": "number"
                },
                "netIncome": {
                    "type": "number"
                },
                "operating": {
                    "$ref": "#/definitions/domain.CashFlowSection"
                },
                "reconciliationAdjustment": {
                    "type": "number"
                },
                "toDate": {
                    "type": "string"
                }
            }
        },
        "domain.Conversion": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "number"
                },
                "converted": {
                    "type": "number"
                },
                "rateUsed": {
                    "$ref": "#/definitions/domain.ResolvedRate"
                }
            }
        },
        "domain.IncomeStatement": {
            "type": "object",
            "properties": {
                "comparative": {
                    "$ref": "#/definitions/domain.IncomeStatement"
                },
                "expenseSections": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.StatementSection"
                    }
                },
                "expenses": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.StatementLine"
                    }
                },
                "fromDate": {
                    "type": "string"
                },
                "netIncome": {
                    "type": "number"
                },
                "revenue": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.StatementLine"
                    }
                },
                "revenueSections": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.StatementSection"
                    }
                },
                "toDate": {
                    "type": "string"
                },
                "totalExpenses": {
                    "type": "number"
                },
                "totalRevenue": {
                    "type": "number"
                }
            }
        },
        "domain.ResolvedRate": {
            "type": "object",
            "properties": {
                "asOf": {
                    "type": "string"
                },
                "from": {
                    "type": "string"
                },
                "rate": {
                    "type": "number"
                },
                "source": {
                    "type": "string",
                    "enum": [
                        "IDENTITY",
                        "DIRECT",
                        "INVERSE",
                        "TRIANGULATED"
                    ]
                },
                "to": {
                    "type": "string"
                }
            }
        },
        "domain.StatementLine": {
            "type": "object",
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "amount": {
                    "type": "number"
                },
                "code": {
                    "type": "string"
                },
                "isAdjustment": {
                    "type": "boolean"
                },
                "name": {
                    "type": "string"
                }
            }
        },
        "domain.StatementPackage": {
            "type": "object",
            "properties": {
                "balanceSheet": {
                    "$ref": "#/definitions/domain.BalanceSheet"
                },
                "cashFlowStatement": {
                    "$ref": "#/definitions/domain.CashFlowStatement"
                },
                "incomeStatement": {
                    "$ref": "#/definitions/domain.IncomeStatement"
                },
                "periodStart": {
                    "type": "string"
                },
                "reportDate": {
                    "type": "string"
                }
            }
        },
        "domain.StatementSection": {
            "type": "object",
            "properties": {
                "lines": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.StatementLine"
                    }
                },
                "tag": {
                    "type": "string",
                    "enum": [
                        "CURRENT_ASSETS",
                        "FIXED_ASSETS",
                        "OTHER_ASSETS",
                        "CURRENT_LIABILITIES",
                        "LONG_TERM_LIABILITIES",
                        "SHARE_CAPITAL",
                        "RETAINED_EARNINGS",
                        "OTHER_EQUITY",
                        "OPERATING_REVENUE",
                        "OTHER_REVENUE",
                        "COST_OF_GOODS_SOLD",
                        "OPERATING_EXPENSES",
                        "FINANCIAL_EXPENSES",
                        "TAX_EXPENSES"
                    ]
                },
                "title": {
                    "type": "string"
                },
                "total": {
                    "type": "number"
                }
            }
        },
        "dto.AccountBalanceResponse": {
            "type": "object",
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "closingBalance": {
                    "type": "number"
                },
                "currencyCode": {
                    "type": "string"
                },
                "currentBalance": {
                    "type": "number"
                },
                "openingBalance": {
                    "type": "number"
                }
            }
        },
        "dto.AccountNodeResponse": {
            "type": "object",
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "accountType": {
                    "type": "string",
                    "enum": [
                        "ASSET",
                        "LIABILITY",
                        "EQUITY",
                        "REVENUE",
                        "EXPENSE"
                    ]
                },
                "children": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.AccountNodeResponse"
                    }
                },
                "code": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "createdBy": {
                    "type": "string"
                },
                "currencyCode": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "isActive": {
                    "type": "boolean"
                },
                "lastUpdatedAt": {
                    "type": "string"
                },
                "lastUpdatedBy": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "parentAccountID": {
                    "type": "string"
                }
            }
        },
        "dto.AccountResponse": {
            "type": "object",
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "accountType": {
                    "type": "string",
                    "enum": [
                        "ASSET",
                        "LIABILITY",
                        "EQUITY",
                        "REVENUE",
                        "EXPENSE"
                    ]
                },
                "code": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "createdBy": {
                    "type": "string"
                },
                "currencyCode": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "isActive": {
                    "type": "boolean"
                },
                "lastUpdatedAt": {
                    "type": "string"
                },
                "lastUpdatedBy": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "parentAccountID": {
                    "type": "string"
                }
            }
        },
        "dto.ConvertRequest": {
            "type": "object",
            "required": [
                "amount",
                "from",
                "to",
                "date"
            ],
            "properties": {
                "amount": {
                    "type": "number"
                },
                "date": {
                    "type": "string"
                },
                "from": {
                    "type": "string"
                },
                "to": {
                    "type": "string"
                }
            }
        },
        "dto.CreateAccountRequest": {
            "type": "object",
            "required": [
                "code",
                "name",
                "accountType",
                "currencyCode"
            ],
            "properties": {
                "accountType": {
                    "type": "string",
                    "enum": [
                        "ASSET",
                        "LIABILITY",
                        "EQUITY",
                        "REVENUE",
                        "EXPENSE"
                    ]
                },
                "code": {
                    "type": "string"
                },
                "currencyCode": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "parentAccountID": {
                    "type": "string"
                }
            }
        },
        "dto.CreateCurrencyRequest": {
            "type": "object",
            "required": [
                "currencyCode",
                "symbol",
                "name"
            ],
            "properties": {
                "currencyCode": {
                    "type": "string"
                },
                "decimalPlaces": {
                    "type": "integer"
                },
                "isBase": {
                    "type": "boolean"
                },
                "name": {
                    "type": "string"
                },
                "symbol": {
                    "type": "string"
                }
            }
        },
        "dto.CreateExchangeRateRequest": {
            "type": "object",
            "required": [
                "fromCurrencyCode",
                "toCurrencyCode",
                "rate",
                "effectiveDate"
            ],
            "properties": {
                "effectiveDate": {
                    "type": "string"
                },
                "fromCurrencyCode": {
                    "type": "string"
                },
                "rate": {
                    "type": "number"
                },
                "toCurrencyCode": {
                    "type": "string"
                }
            }
        },
        "dto.CreateFiscalPeriodRequest": {
            "type": "object",
            "required": [
                "name",
                "startDate",
                "endDate"
            ],
            "properties": {
                "endDate": {
                    "type": "string"
                },
                "fiscalYear": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "startDate": {
                    "type": "string"
                }
            }
        },
        "dto.CreateFiscalYearRequest": {
            "type": "object",
            "required": [
                "year"
            ],
            "properties": {
                "year": {
                    "type": "integer"
                }
            }
        },
        "dto.CreateJournalEntryRequest": {
            "type": "object",
            "required": [
                "entryDate",
                "description",
                "lines"
            ],
            "properties": {
                "description": {
                    "type": "string"
                },
                "entryDate": {
                    "type": "string"
                },
                "lines": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.JournalLineRequest"
                    }
                },
                "post": {
                    "type": "boolean"
                },
                "reference": {
                    "type": "string"
                }
            }
        },
        "dto.CurrencyResponse": {
            "type": "object",
            "properties": {
                "createdAt": {
                    "type": "string"
                },
                "createdBy": {
                    "type": "string"
                },
                "currencyCode": {
                    "type": "string"
                },
                "decimalPlaces": {
                    "type": "integer"
                },
                "isActive": {
                    "type": "boolean"
                },
                "isBase": {
                    "type": "boolean"
                },
                "lastUpdatedAt": {
                    "type": "string"
                },
                "lastUpdatedBy": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "symbol": {
                    "type": "string"
                }
            }
        },
        "dto.ExchangeRateResponse": {
            "type": "object",
            "properties": {
                "createdAt": {
                    "type": "string"
                },
                "createdBy": {
                    "type": "string"
                },
                "effectiveDate": {
                    "type": "string"
                },
                "exchangeRateID": {
                    "type": "string"
                },
                "fromCurrencyCode": {
                    "type": "string"
                },
                "rate": {
                    "type": "number"
                },
                "toCurrencyCode": {
                    "type": "string"
                }
            }
        },
        "dto.FiscalPeriodResponse": {
            "type": "object",
            "properties": {
                "closedAt": {
                    "type": "string"
                },
                "closedBy": {
                    "type": "string"
                },
                "endDate": {
                    "type": "string"
                },
                "fiscalYear": {
                    "type": "integer"
                },
                "isClosed": {
                    "type": "boolean"
                },
                "name": {
                    "type": "string"
                },
                "periodID": {
                    "type": "string"
                },
                "startDate": {
                    "type": "string"
                }
            }
        },
        "dto.InvoiceLineItem": {
            "type": "object",
            "required": [
                "accountID",
                "amount"
            ],
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "amount": {
                    "type": "number"
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "dto.InvoicePostingRequest": {
            "type": "object",
            "required": [
                "kind",
                "counterparty",
                "total",
                "lineItems",
                "date"
            ],
            "properties": {
                "controlAccountID": {
                    "type": "string"
                },
                "counterparty": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "documentNumber": {
                    "type": "string"
                },
                "kind": {
                    "type": "string",
                    "enum": [
                        "PAYABLE",
                        "RECEIVABLE"
                    ]
                },
                "lineItems": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.InvoiceLineItem"
                    }
                },
                "total": {
                    "type": "number"
                }
            }
        },
        "dto.JournalEntryResponse": {
            "type": "object",
            "properties": {
                "createdAt": {
                    "type": "string"
                },
                "createdBy": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "entryDate": {
                    "type": "string"
                },
                "entryID": {
                    "type": "string"
                },
                "entryNumber": {
                    "type": "string"
                },
                "kind": {
                    "type": "string",
                    "enum": [
                        "STANDARD",
                        "REVERSAL",
                        "CLOSING"
                    ]
                },
                "lines": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.JournalLineResponse"
                    }
                },
                "postedAt": {
                    "type": "string"
                },
                "reference": {
                    "type": "string"
                },
                "reversalOf": {
                    "type": "string"
                },
                "reversedAt": {
                    "type": "string"
                },
                "reversedBy": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "DRAFT",
                        "POSTED",
                        "REVERSED"
                    ]
                },
                "totalCredit": {
                    "type": "number"
                },
                "totalDebit": {
                    "type": "number"
                }
            }
        },
        "dto.JournalLineRequest": {
            "type": "object",
            "required": [
                "accountID"
            ],
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "creditAmount": {
                    "type": "number"
                },
                "debitAmount": {
                    "type": "number"
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "dto.JournalLineResponse": {
            "type": "object",
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "creditAmount": {
                    "type": "number"
                },
                "debitAmount": {
                    "type": "number"
                },
                "description": {
                    "type": "string"
                },
                "lineNumber": {
                    "type": "integer"
                }
            }
        },
        "dto.ListAccountsResponse": {
            "type": "object",
            "properties": {
                "accounts": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.AccountResponse"
                    }
                }
            }
        },
        "dto.ListJournalEntriesResponse": {
            "type": "object",
            "properties": {
                "entries": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.JournalEntryResponse"
                    }
                },
                "nextToken": {
                    "type": "string"
                }
            }
        },
        "dto.PaymentPostingRequest": {
            "type": "object",
            "required": [
                "kind",
                "counterparty",
                "amount",
                "bankAccountID",
                "date"
            ],
            "properties": {
                "amount": {
                    "type": "number"
                },
                "bankAccountID": {
                    "type": "string"
                },
                "controlAccountID": {
                    "type": "string"
                },
                "counterparty": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "documentNumber": {
                    "type": "string"
                },
                "kind": {
                    "type": "string",
                    "enum": [
                        "PAYABLE",
                        "RECEIVABLE"
                    ]
                }
            }
        },
        "dto.ReverseJournalEntryRequest": {
            "type": "object",
            "properties": {
                "reversalDate": {
                    "type": "string"
                }
            }
        },
        "dto.TrialBalanceResponse": {
            "type": "object",
            "properties": {
                "asOf": {
                    "type": "string"
                },
                "balanced": {
                    "type": "boolean"
                },
                "rows": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.TrialBalanceRowResponse"
                    }
                },
                "totals": {
                    "$ref": "#/definitions/dto.TrialBalanceResponse_Totals"
                }
            }
        },
        "dto.TrialBalanceResponse_Totals": {
            "type": "object",
            "properties": {
                "credit": {
                    "type": "number"
                },
                "debit": {
                    "type": "number"
                }
            }
        },
        "dto.TrialBalanceRowResponse": {
            "type": "object",
            "properties": {
                "accountID": {
                    "type": "string"
                },
                "accountName": {
                    "type": "string"
                },
                "accountType": {
                    "type": "string"
                },
                "balance": {
                    "type": "number"
                },
                "code": {
                    "type": "string"
                },
                "credit": {
                    "type": "number"
                },
                "debit": {
                    "type": "number"
                }
            }
        },
        "dto.UpdateAccountRequest": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "isActive": {
                    "type": "boolean"
                },
                "name": {
                    "type": "string"
                },
                "parentAccountID": {
                    "type": "string"
                }
            }
        },
        "dto.YearCloseResponse": {
            "type": "object",
            "properties": {
                "carriedForward": {
                    "type": "boolean"
                },
                "carryForwardCount": {
                    "type": "integer"
                },
                "closingEntry": {
                    "$ref": "#/definitions/dto.JournalEntryResponse"
                },
                "fiscalYear": {
                    "type": "integer"
                },
                "netIncome": {
                    "type": "number"
                },
                "nextPeriodID": {
                    "type": "string"
                }
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                },
                "rule": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Ledger Engine API",
	Description:      "Double-entry general ledger with fiscal period control and financial statements.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
