// @title           pawmart API
// @version         1.0
// @description     Storefront and pet registry. Browsing is public; mutations require an OIDC login session.
// @BasePath        /api
package api
