package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/busmitra/busmitra/pkg/transit"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// requestParams flattens the fields of a request into strings. GET requests use the query string,
// anything else uses the body. Devices post forms without a Content-Type, so a body that is neither
// JSON nor multipart is parsed as url encoded.
func requestParams(c *fiber.Ctx) (transit.Params, error) {
	params := transit.Params{}

	if c.Method() == fiber.MethodGet {
		visitArgs(c.Context().QueryArgs(), params)
		return params, nil
	}

	contentType := strings.ToLower(string(c.Request().Header.ContentType()))

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		if len(c.Body()) == 0 {
			return params, nil
		}

		decoder := json.NewDecoder(bytes.NewReader(c.Body()))
		decoder.UseNumber()

		var body interface{}
		if err := decoder.Decode(&body); err != nil {
			return nil, err
		}

		// Arrays and scalars carry no fields
		fields, _ := body.(map[string]interface{})
		for key, value := range fields {
			params[key] = stringValue(value)
		}
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}

		for key, values := range form.Value {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}
	default:
		var args fasthttp.Args
		args.ParseBytes(c.Body())
		visitArgs(&args, params)
	}

	return params, nil
}

func visitArgs(args *fasthttp.Args, params transit.Params) {
	args.VisitAll(func(key, value []byte) {
		params[string(key)] = string(value)
	})
}

func stringValue(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case json.Number:
		return typed.String()
	case bool:
		if typed {
			return "true"
		}
		return "false"
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	}
}

func errorResponse(c *fiber.Ctx, status int, err error) error {
	c.SendStatus(status)
	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}
