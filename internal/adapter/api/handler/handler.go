package handler

import (
	"roomlink/internal/usecase"
)

var (
	authHandler    *AuthHandler
	userHandler    *UserHandler
	listingHandler *ListingHandler
	commentHandler *CommentHandler
	reviewHandler  *ReviewHandler
	reportHandler  *ReportHandler
	chatHandler    *ChatHandler
	paymentHandler *PaymentHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	listingUseCase *usecase.ListingUseCase,
	commentUseCase *usecase.CommentUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	reportUseCase *usecase.ReportUseCase,
	chatUseCase *usecase.ChatUseCase,
	paymentUseCase *usecase.PaymentUseCase,
	paystackSecret string,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	listingHandler = NewListingHandler(listingUseCase)
	commentHandler = NewCommentHandler(commentUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	reportHandler = NewReportHandler(reportUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	paymentHandler = NewPaymentHandler(paymentUseCase, paystackSecret)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetCommentHandler() *CommentHandler {
	return commentHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetReportHandler() *ReportHandler {
	return reportHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetPaymentHandler() *PaymentHandler {
	return paymentHandler
}
