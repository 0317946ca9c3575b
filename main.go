package main

import (
	"bitwise74/media-api/app"
	"bitwise74/media-api/config"
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	if err := app.MakeLogger(); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	router, err := app.NewRouter(context.Background())
	if err != nil {
		zap.L().Fatal("Failed to build router", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", viper.GetInt("host.port"))
	zap.L().Info("Server starting", zap.String("addr", addr))

	if viper.GetBool("host.ssl.enabled") {
		err = router.RunTLS(addr, viper.GetString("host.ssl.certificate_path"), viper.GetString("host.ssl.certificate_key_path"))
	} else {
		err = router.Run(addr)
	}
	if err != nil {
		zap.L().Fatal("Server stopped", zap.Error(err))
	}
}
