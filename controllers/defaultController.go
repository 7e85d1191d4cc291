package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Storefront API. All resource routes live under "/api/v1".

AUTH
- POST "/auth/register" - Create user account
- POST "/auth/login" - Access user account
- GET "/auth/current-user" - Get the signed in user
- GET "/auth/logout" - Clear the session cookie
- PUT "/auth/update" - Update profile (multipart, optional "image")

PRODUCT
- POST "/product" - Create new product (owner)
- GET "/products" - List products (page, limit, sort, name, field filters)
- GET "/product/:id" - Get product by ID
- PUT "/product/:id" - Update product (owner)
- DELETE "/product/:id" - Delete product (owner)
- POST "/product/file-upload" - Upload a product image (owner)

CART
- POST "/cart" - Add product to cart
- GET "/cart" - Get cart
- PUT "/cart" and "/cart/:productId" - Set item quantity
- GET "/cart/:productId" - Get cart item
- DELETE "/cart" - Clear cart
- DELETE "/cart/:productId" - Remove product from cart
- GET|PUT|DELETE "/cart/item/:itemId" - Cart item by ID

ORDER
- POST "/order" - Create a new order
- GET "/orders" - Retrieve all orders (owner)
- GET "/orders/current-user" - Orders of the signed in user
- GET "/orders/undelivered-count" - Count orders awaiting delivery (owner)
- GET "/order/:id" - Get order by ID
- PUT "/order/:id" - Update order (owner)
- DELETE "/order/:id" - Delete order by ID`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
