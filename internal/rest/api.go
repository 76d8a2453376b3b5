package rest

import "github.com/gin-gonic/gin"

func NewApi(router *gin.Engine, images *ImageHandler) {
	router.GET("/image/:uuid/:variant", images.GetVariant)

	apiV1 := router.Group("api")
	{
		apiV1.GET("/images/:category/:limit/:skip", images.ListImages)
		apiV1.GET("/image/:uuid", images.GetImage)
		apiV1.PUT("/images/:category", images.UploadImage)
		apiV1.DELETE("/image/:uuid", images.DeleteImage)
	}
}
